// Package importer carries recipes over from the legacy menu snapshot:
// loading and normalising the old duck-typed records, assigning each a
// menu category, and driving the additive migration and field backfill.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
)

// LegacyRecipe is one record of the legacy snapshot. The old data is
// loosely shaped, so every field is optional and price tolerates both
// string and numeric JSON values.
type LegacyRecipe struct {
	Name         string       `json:"name"`
	Spirit       string       `json:"spirit"`
	Description  string       `json:"description"`
	Ingredients  []string     `json:"ingredients"`
	SpecRecipe   []string     `json:"spec_recipe"`
	Glassware    string       `json:"glassware"`
	Garnish      string       `json:"garnish"`
	Instructions string       `json:"instructions"`
	ImagePath    string       `json:"image_path"`
	IsClassic    bool         `json:"is_classic"`
	IsCOTW       bool         `json:"is_cotw"`
	IsCraft      bool         `json:"is_craft"`
	IsWell       bool         `json:"is_well"`
	BeerType     string       `json:"beer_type"`
	Price        legacyString `json:"price"`
}

// SpecLines returns the record's measured ingredient lines, falling back
// to the bare ingredient list for records predating spec_recipe.
func (r LegacyRecipe) SpecLines() []string {
	if len(r.SpecRecipe) > 0 {
		return r.SpecRecipe
	}
	return r.Ingredients
}

// legacyString decodes a JSON string or number into its textual form.
type legacyString string

func (s *legacyString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = legacyString(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*s = legacyString(number.String())
	return nil
}

// LoadSnapshot reads a legacy snapshot from disk. An absent file is not
// an error: migrations against a missing snapshot are a no-op.
func LoadSnapshot(path string) ([]LegacyRecipe, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy snapshot: %w", err)
	}
	return decodeSnapshot(raw)
}

// FetchSnapshot retrieves a legacy snapshot over HTTP.
func FetchSnapshot(ctx context.Context, client *resty.Client, url string) ([]LegacyRecipe, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch legacy snapshot: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch legacy snapshot: unexpected status %d", resp.StatusCode())
	}
	return decodeSnapshot(resp.Body())
}

// ReadSource loads a snapshot from either a URL or a filesystem path.
func ReadSource(ctx context.Context, client *resty.Client, source string) ([]LegacyRecipe, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return FetchSnapshot(ctx, client, source)
	}
	return LoadSnapshot(source)
}

func decodeSnapshot(raw []byte) ([]LegacyRecipe, error) {
	var records []LegacyRecipe
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode legacy snapshot: %w", err)
	}
	return records, nil
}
