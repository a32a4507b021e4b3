package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	applog "barkeep/internal/log"
	"barkeep/internal/specs"
)

type specsPreviewRequest struct {
	Text  string   `json:"text"`
	Lines []string `json:"lines"`
}

type specLineResponse struct {
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
	RawText    string  `json:"raw_text"`
}

type specsPreviewResponse struct {
	Names     []string           `json:"names"`
	Converted []string           `json:"converted"`
	Lines     []specLineResponse `json:"lines"`
}

// SpecsPreview normalizes a pasted ingredient block without storing
// anything: cleaned names, ounce-converted lines, and the structured
// reading of each line come back in parallel so the editor can show all
// three views of the same text.
func SpecsPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ActiveSession(r) {
		applog.Debug(r.Context(), "specs preview missing authenticated session")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload specsPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid specs preview payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	text := payload.Text
	if len(payload.Lines) > 0 {
		text = strings.Join(payload.Lines, "\n")
	}

	writeJSON(w, http.StatusOK, previewBlock(text))
}

func previewBlock(text string) specsPreviewResponse {
	names, converted := specs.NormalizeBlock(text)

	lines := specs.SplitLines(text)
	structured := make([]specLineResponse, 0, len(lines))
	for _, line := range lines {
		parsed := specs.ParseLine(line)
		structured = append(structured, specLineResponse{
			Amount:     parsed.Amount,
			Unit:       parsed.Unit,
			Ingredient: parsed.Ingredient,
			RawText:    line,
		})
	}

	return specsPreviewResponse{
		Names:     names,
		Converted: converted,
		Lines:     structured,
	}
}
