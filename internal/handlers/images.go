package handlers

import (
	"errors"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"

	applog "barkeep/internal/log"
)

// Photos wider than this are scaled down before serving; the menu never
// renders larger.
const maxMenuImageWidth = 1200

var (
	uploadsDir           = "uploads"
	uploadMaxBytes int64 = 8 << 20
)

// ConfigureUploads sets where menu photos are written and the largest
// accepted upload size.
func ConfigureUploads(dir string, maxBytes int64) {
	if trimmed := strings.TrimSpace(dir); trimmed != "" {
		uploadsDir = trimmed
	}
	if maxBytes > 0 {
		uploadMaxBytes = maxBytes
	}
}

// uploadRecipeImage stores a menu photo for the recipe: the upload is
// auto-oriented, scaled down to menu width when needed, re-encoded as
// JPEG under a fresh name, and the recipe pointed at it. The previous
// photo file is removed only after the swap succeeds.
func uploadRecipeImage(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()

	current, err := menuStore.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "recipe not found for image upload", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for image upload", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploadMaxBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		applog.Debug(ctx, "missing menu photo upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "an image file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		applog.Debug(ctx, "unreadable menu photo", "error", err)
		writeJSONError(w, http.StatusUnsupportedMediaType, "could not decode the image")
		return
	}

	if img.Bounds().Dx() > maxMenuImageWidth {
		img = imaging.Resize(img, maxMenuImageWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		applog.Error(ctx, "failed to create uploads directory", "error", err, "dir", uploadsDir)
		writeJSONError(w, http.StatusInternalServerError, "unable to store image")
		return
	}

	filename := uuid.New().String() + ".jpg"
	destination := filepath.Join(uploadsDir, filename)
	if err := saveJPEG(img, destination); err != nil {
		applog.Error(ctx, "failed to write menu photo", "error", err, "path", destination)
		writeJSONError(w, http.StatusInternalServerError, "unable to store image")
		return
	}

	updated, err := menuStore.SetImagePath(ctx, recipeID, "/uploads/"+filename)
	if err != nil {
		os.Remove(destination)
		applog.Error(ctx, "failed to attach menu photo", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to store image")
		return
	}

	removeStoredImage(current.ImagePath)

	writeJSON(w, http.StatusOK, projectRecipe(*updated))
}

func saveJPEG(img image.Image, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(85))
}

// removeStoredImage deletes a previously uploaded photo. Paths outside
// the uploads prefix are left alone so externally hosted images survive
// a photo swap.
func removeStoredImage(webPath string) {
	const prefix = "/uploads/"
	if !strings.HasPrefix(webPath, prefix) {
		return
	}
	name := filepath.Base(strings.TrimPrefix(webPath, prefix))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return
	}
	os.Remove(filepath.Join(uploadsDir, name))
}
