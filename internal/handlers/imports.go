package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"barkeep/internal/importer"
	applog "barkeep/internal/log"
	"barkeep/internal/specs"
)

var (
	catalogSource = "menu.json"
	catalogClient = resty.New()
)

// ConfigureCatalog sets the default legacy snapshot location, either a
// filesystem path or an http(s) URL.
func ConfigureCatalog(source string) {
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		catalogSource = trimmed
	}
}

type catalogEntry struct {
	Name     string   `json:"name"`
	Spirit   string   `json:"spirit"`
	Price    string   `json:"price"`
	Category string   `json:"category"`
	Specs    []string `json:"specs"`
	Imported bool     `json:"imported"`
}

type catalogImportRequest struct {
	Names []string `json:"names"`
}

type catalogImportResponse struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
}

type snapshotRequest struct {
	Source string `json:"source"`
}

type migrateResponse struct {
	Records  int `json:"records"`
	Imported int `json:"imported"`
}

type backfillResponse struct {
	Records int `json:"records"`
	Updated int `json:"updated"`
}

// Catalog lists the legacy snapshot for the import picker: each entry
// carries its classified category, ounce-converted spec preview, and
// whether a recipe with that name is already on the menu.
func Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !guardImports(w, r) {
		return
	}

	ctx := r.Context()
	records, err := importer.ReadSource(ctx, catalogClient, catalogSource)
	if err != nil {
		applog.Error(ctx, "failed to load drink catalog", "error", err, "source", catalogSource)
		writeJSONError(w, http.StatusBadGateway, "unable to load drink catalog")
		return
	}

	onMenu, err := menuRecipeNames(r)
	if err != nil {
		applog.Error(ctx, "failed to load menu names", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menu")
		return
	}

	entries := make([]catalogEntry, 0, len(records))
	for _, record := range records {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			continue
		}
		entries = append(entries, catalogEntry{
			Name:     name,
			Spirit:   record.Spirit,
			Price:    string(record.Price),
			Category: importer.Classify(record),
			Specs:    convertedSpecLines(record),
			Imported: onMenu[name],
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

// CatalogImport copies the selected catalog entries onto the menu. The
// spec lines are converted to ounces permanently at this point; names
// already on the menu or absent from the catalog are reported back as
// skipped.
func CatalogImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !guardImports(w, r) {
		return
	}

	ctx := r.Context()

	var payload catalogImportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid catalog import payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if len(payload.Names) == 0 {
		writeJSONError(w, http.StatusBadRequest, "names are required")
		return
	}

	records, err := importer.ReadSource(ctx, catalogClient, catalogSource)
	if err != nil {
		applog.Error(ctx, "failed to load drink catalog", "error", err, "source", catalogSource)
		writeJSONError(w, http.StatusBadGateway, "unable to load drink catalog")
		return
	}

	byName := make(map[string]importer.LegacyRecipe, len(records))
	for _, record := range records {
		if name := strings.TrimSpace(record.Name); name != "" {
			byName[name] = record
		}
	}

	response := catalogImportResponse{Imported: []string{}, Skipped: []string{}}
	seen := make(map[string]bool, len(payload.Names))
	for _, requested := range payload.Names {
		name := strings.TrimSpace(requested)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		record, ok := byName[name]
		if !ok {
			response.Skipped = append(response.Skipped, name)
			continue
		}

		record.SpecRecipe = convertedSpecLines(record)
		record.Ingredients = nil

		created, err := menuStore.SaveNew(ctx, importer.BuildRecipe(record))
		if err != nil {
			applog.Error(ctx, "failed to import catalog entry", "error", err, "name", name)
			response.Skipped = append(response.Skipped, name)
			continue
		}
		if !created {
			response.Skipped = append(response.Skipped, name)
			continue
		}
		response.Imported = append(response.Imported, name)
	}

	bartender, _ := currentUserID(r)
	applog.Info(ctx, "catalog import finished", "imported", len(response.Imported), "skipped", len(response.Skipped), "bartender", bartender)
	writeJSON(w, http.StatusOK, response)
}

// AdminMigrate runs the additive legacy migration against the default
// snapshot or a caller-supplied source.
func AdminMigrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !guardImports(w, r) {
		return
	}

	ctx := r.Context()
	records, err := readSnapshotRequest(w, r)
	if err != nil {
		return
	}

	bartender, _ := currentUserID(r)
	imported := importer.Migrate(ctx, records, menuStore)
	applog.Info(ctx, "legacy migration finished", "records", len(records), "imported", imported, "bartender", bartender)
	writeJSON(w, http.StatusOK, migrateResponse{Records: len(records), Imported: imported})
}

// AdminBackfill refreshes description, image, price and spirit on
// already-migrated recipes from the snapshot.
func AdminBackfill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !guardImports(w, r) {
		return
	}

	ctx := r.Context()
	records, err := readSnapshotRequest(w, r)
	if err != nil {
		return
	}

	bartender, _ := currentUserID(r)
	updated := importer.Backfill(ctx, records, menuStore)
	applog.Info(ctx, "legacy backfill finished", "records", len(records), "updated", updated, "bartender", bartender)
	writeJSON(w, http.StatusOK, backfillResponse{Records: len(records), Updated: updated})
}

// readSnapshotRequest resolves the snapshot for the admin endpoints and
// writes the error response itself when loading fails.
func readSnapshotRequest(w http.ResponseWriter, r *http.Request) ([]importer.LegacyRecipe, error) {
	ctx := r.Context()

	source := catalogSource
	if r.Body != nil {
		var payload snapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			if trimmed := strings.TrimSpace(payload.Source); trimmed != "" {
				source = trimmed
			}
		}
	}

	records, err := importer.ReadSource(ctx, catalogClient, source)
	if err != nil {
		applog.Error(ctx, "failed to load legacy snapshot", "error", err, "source", source)
		writeJSONError(w, http.StatusBadGateway, "unable to load legacy snapshot")
		return nil, err
	}
	return records, nil
}

func guardImports(w http.ResponseWriter, r *http.Request) bool {
	if database == nil || menuStore == nil {
		applog.Debug(r.Context(), "import request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	if !ActiveSession(r) {
		applog.Debug(r.Context(), "import request missing authenticated session")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func menuRecipeNames(r *http.Request) (map[string]bool, error) {
	recipes, err := menuStore.List(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(recipes))
	for _, recipe := range recipes {
		names[recipe.Name] = true
	}
	return names, nil
}

func convertedSpecLines(record importer.LegacyRecipe) []string {
	lines := record.SpecLines()
	converted := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		converted = append(converted, specs.ConvertMetric(trimmed))
	}
	return converted
}
