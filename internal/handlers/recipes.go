package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "barkeep/internal/log"
	"barkeep/internal/menu"
	"barkeep/internal/specs"
	"barkeep/models"
)

type recipeRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	ImagePath    string   `json:"image_path"`
	Spirit       string   `json:"spirit"`
	Instructions string   `json:"instructions"`
	Glassware    string   `json:"glassware"`
	Garnish      string   `json:"garnish"`
	IsCOTW       bool     `json:"is_cotw"`
	IsCraft      bool     `json:"is_craft"`
	IsWell       bool     `json:"is_well"`
	BeerType     string   `json:"beer_type"`
	Specs        []string `json:"specs"`
}

type featureRequest struct {
	Featured bool `json:"featured"`
}

type ingredientResponse struct {
	ID         uint    `json:"id"`
	Position   int     `json:"position"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
	RawText    string  `json:"raw_text"`
}

type recipeResponse struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Category     string               `json:"category"`
	Description  string               `json:"description"`
	Price        string               `json:"price"`
	ImagePath    string               `json:"image_path"`
	Spirit       string               `json:"spirit"`
	Instructions string               `json:"instructions"`
	Glassware    string               `json:"glassware"`
	Garnish      string               `json:"garnish"`
	IsCOTW       bool                 `json:"is_cotw"`
	IsCraft      bool                 `json:"is_craft"`
	IsWell       bool                 `json:"is_well"`
	BeerType     string               `json:"beer_type"`
	Specs        []string             `json:"specs"`
	Ingredients  []ingredientResponse `json:"ingredients"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// RecipeResource handles REST-style interactions for menu recipes,
// including the feature and image subresources.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil || menuStore == nil {
		applog.Debug(r.Context(), "recipe request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	if !ActiveSession(r) {
		applog.Debug(r.Context(), "recipe request missing authenticated session")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/recipes")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			createRecipe(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	identifier := segments[0]
	idValue, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", identifier, "error", err)
		http.NotFound(w, r)
		return
	}
	recipeID := uint(idValue)

	if len(segments) > 1 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch segments[1] {
		case "feature":
			featureRecipe(w, r, recipeID)
		case "image":
			uploadRecipeImage(w, r, recipeID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, recipeID)
	case http.MethodPut:
		updateRecipe(w, r, recipeID)
	case http.MethodDelete:
		deleteRecipe(w, r, recipeID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipes, err := menuStore.List(ctx)
	if err != nil {
		applog.Error(ctx, "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	filtered := menu.FilterRecipes(recipes, menu.FiltersFromRequest(r))
	responses := make([]recipeResponse, 0, len(filtered))
	for _, recipe := range filtered {
		responses = append(responses, projectRecipe(recipe))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe, errMessage := recipeFromPayload(payload)
	if errMessage != "" {
		writeJSONError(w, http.StatusBadRequest, errMessage)
		return
	}

	created, err := menuStore.SaveNew(ctx, recipe)
	if err != nil {
		applog.Error(ctx, "failed to create recipe", "error", err, "name", recipe.Name)
		writeJSONError(w, http.StatusInternalServerError, "unable to create recipe")
		return
	}
	if !created {
		applog.Debug(ctx, "duplicate recipe name rejected", "name", recipe.Name)
		writeJSONError(w, http.StatusConflict, "a recipe with that name already exists")
		return
	}

	writeJSON(w, http.StatusCreated, projectRecipe(*recipe))
}

func showRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	recipe, err := menuStore.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "recipe not found", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

func updateRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()

	var payload recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe, errMessage := recipeFromPayload(payload)
	if errMessage != "" {
		writeJSONError(w, http.StatusBadRequest, errMessage)
		return
	}

	updated, err := menuStore.Replace(ctx, recipeID, recipe)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			applog.Debug(ctx, "recipe not found for update", "id", recipeID)
			http.NotFound(w, r)
		case errors.Is(err, menu.ErrNameTaken):
			applog.Debug(ctx, "rename collides with existing recipe", "id", recipeID, "name", recipe.Name)
			writeJSONError(w, http.StatusConflict, "a recipe with that name already exists")
		default:
			applog.Error(ctx, "failed to update recipe", "error", err, "id", recipeID)
			writeJSONError(w, http.StatusInternalServerError, "unable to update recipe")
		}
		return
	}

	writeJSON(w, http.StatusOK, projectRecipe(*updated))
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	if err := menuStore.Delete(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "recipe not found for delete", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to delete recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func featureRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()

	var payload featureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid feature payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe, err := menuStore.SetFeatured(ctx, recipeID, payload.Featured)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "recipe not found for feature", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to feature recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to feature recipe")
		return
	}

	writeJSON(w, http.StatusOK, projectRecipe(*recipe))
}

// recipeFromPayload validates an incoming recipe body and returns the
// storable record or a client-facing error message.
func recipeFromPayload(payload recipeRequest) (*models.Recipe, string) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, "name is required"
	}

	category := strings.TrimSpace(payload.Category)
	if category != "" && !models.ValidCategory(category) {
		return nil, "unknown category"
	}

	return &models.Recipe{
		Name:         name,
		Category:     category,
		Description:  strings.TrimSpace(payload.Description),
		Price:        strings.TrimSpace(payload.Price),
		ImagePath:    strings.TrimSpace(payload.ImagePath),
		Spirit:       strings.TrimSpace(payload.Spirit),
		Instructions: strings.TrimSpace(payload.Instructions),
		Glassware:    strings.TrimSpace(payload.Glassware),
		Garnish:      strings.TrimSpace(payload.Garnish),
		IsCOTW:       payload.IsCOTW,
		IsCraft:      payload.IsCraft,
		IsWell:       payload.IsWell,
		BeerType:     strings.TrimSpace(payload.BeerType),
		Ingredients:  buildSpecRows(payload.Specs),
	}, ""
}

// buildSpecRows keeps each non-blank line verbatim next to its parsed
// amount, unit and ingredient name.
func buildSpecRows(lines []string) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parsed := specs.ParseLine(trimmed)
		rows = append(rows, models.RecipeIngredient{
			Amount:     parsed.Amount,
			Unit:       parsed.Unit,
			Ingredient: parsed.Ingredient,
			RawText:    trimmed,
		})
	}
	return rows
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	ingredients := make([]ingredientResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, ingredientResponse{
			ID:         row.ID,
			Position:   row.Position,
			Amount:     row.Amount,
			Unit:       row.Unit,
			Ingredient: row.Ingredient,
			RawText:    row.RawText,
		})
	}

	return recipeResponse{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Category:     recipe.Category,
		Description:  recipe.Description,
		Price:        recipe.Price,
		ImagePath:    recipe.ImagePath,
		Spirit:       recipe.Spirit,
		Instructions: recipe.Instructions,
		Glassware:    recipe.Glassware,
		Garnish:      recipe.Garnish,
		IsCOTW:       recipe.IsCOTW,
		IsCraft:      recipe.IsCraft,
		IsWell:       recipe.IsWell,
		BeerType:     recipe.BeerType,
		Specs:        menu.DisplayLines(recipe),
		Ingredients:  ingredients,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
