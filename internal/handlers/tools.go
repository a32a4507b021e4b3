package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	applog "barkeep/internal/log"
)

const maxDrinkListUploadSize = 5 << 20 // 5 MiB

type drinkListResponse struct {
	Filename  string             `json:"filename"`
	Names     []string           `json:"names"`
	Converted []string           `json:"converted"`
	Lines     []specLineResponse `json:"lines"`
}

// ToolsExtractDrinkList pulls the text out of an uploaded drink list
// (PDF or plain text) and runs it through the spec normalizer, so a
// distributor sheet becomes menu-ready lines without retyping.
func ToolsExtractDrinkList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ActiveSession(r) {
		applog.Debug(r.Context(), "drink list upload missing authenticated session")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filename, data, mime, err := readDrinkListUpload(r)
	if err != nil {
		applog.Debug(r.Context(), "rejected drink list upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(data) == 0 {
		writeJSONError(w, http.StatusBadRequest, "a drink list file is required")
		return
	}

	text, err := deriveTextFromUpload(data, mime)
	if err != nil {
		applog.Error(r.Context(), "failed to extract drink list text", "error", err, "filename", filename)
		writeJSONError(w, http.StatusUnsupportedMediaType, "could not read the file; upload a PDF or plain text")
		return
	}

	preview := previewBlock(text)
	writeJSON(w, http.StatusOK, drinkListResponse{
		Filename:  filename,
		Names:     preview.Names,
		Converted: preview.Converted,
		Lines:     preview.Lines,
	})
}

func readDrinkListUpload(r *http.Request) (string, []byte, string, error) {
	file, header, err := r.FormFile("drink_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, "", nil
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > maxDrinkListUploadSize {
		return "", nil, "", fmt.Errorf("file exceeds %d bytes", maxDrinkListUploadSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = mimeTypeFromName(header.Filename)
	}

	return header.Filename, buf.Bytes(), mime, nil
}

func deriveTextFromUpload(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractTextFromPDF(data)
	case strings.HasPrefix(lower, "image/"):
		return "", errors.New("image uploads are not supported")
	default:
		return string(data), nil
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func mimeTypeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
