package handlers

import (
	"net/http"

	applog "barkeep/internal/log"
	"barkeep/internal/menu"
)

type menuSectionResponse struct {
	Category string           `json:"category"`
	Recipes  []recipeResponse `json:"recipes"`
}

type menuResponse struct {
	DrinkCount int                   `json:"drink_count"`
	Sections   []menuSectionResponse `json:"sections"`
}

// Menu serves the guest-facing menu: recipes grouped into display
// sections with the featured drink first in its section. The endpoint
// is public and honours the q, category and spirit filters.
func Menu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if menuStore == nil {
		applog.Debug(r.Context(), "menu request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	recipes, err := menuStore.List(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load menu", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load menu")
		return
	}

	filtered := menu.FilterRecipes(recipes, menu.FiltersFromRequest(r))
	sections := menu.GroupByCategory(filtered)

	response := menuResponse{
		DrinkCount: len(filtered),
		Sections:   make([]menuSectionResponse, 0, len(sections)),
	}
	for _, section := range sections {
		projected := make([]recipeResponse, 0, len(section.Recipes))
		for _, recipe := range section.Recipes {
			projected = append(projected, projectRecipe(recipe))
		}
		response.Sections = append(response.Sections, menuSectionResponse{
			Category: section.Category,
			Recipes:  projected,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
