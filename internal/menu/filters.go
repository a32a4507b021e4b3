package menu

import (
	"net/http"
	"strings"

	"barkeep/models"
)

// Filters capture the client-driven state for recipe lookups.
type Filters struct {
	Query    string
	Category string
	Spirit   string
}

// FiltersFromRequest extracts filter inputs from an HTTP request.
func FiltersFromRequest(r *http.Request) Filters {
	filters := Filters{}
	if err := r.ParseForm(); err != nil {
		return filters
	}
	filters.Query = strings.TrimSpace(r.FormValue("q"))
	filters.Category = strings.TrimSpace(r.FormValue("category"))
	filters.Spirit = strings.TrimSpace(r.FormValue("spirit"))
	return filters
}

// FilterRecipes applies the provided filters to a list of recipes.
func FilterRecipes(all []models.Recipe, filters Filters) []models.Recipe {
	if filters.Query == "" && filters.Category == "" && filters.Spirit == "" {
		return all
	}
	query := strings.ToLower(filters.Query)
	spirit := strings.ToLower(filters.Spirit)
	filtered := make([]models.Recipe, 0, len(all))
	for _, recipe := range all {
		if filters.Category != "" && recipe.Category != filters.Category {
			continue
		}
		if spirit != "" && !containsFold(recipe.Spirit, spirit) {
			continue
		}
		if query != "" && !matchesQuery(recipe, query) {
			continue
		}
		filtered = append(filtered, recipe)
	}
	return filtered
}

func matchesQuery(recipe models.Recipe, query string) bool {
	if containsFold(recipe.Name, query) ||
		containsFold(recipe.Description, query) ||
		containsFold(recipe.Spirit, query) {
		return true
	}
	for _, row := range recipe.Ingredients {
		if containsFold(row.Ingredient, query) {
			return true
		}
	}
	return false
}

// FindRecipe returns the first recipe matching the requested identifier.
func FindRecipe(all []models.Recipe, id uint) *models.Recipe {
	for i := range all {
		if all[i].ID == id {
			return &all[i]
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}
