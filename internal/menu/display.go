package menu

import (
	"strings"

	"barkeep/internal/specs"
	"barkeep/models"
)

// Section is one category block of the guest menu.
type Section struct {
	Category string          `json:"category"`
	Recipes  []models.Recipe `json:"recipes"`
}

// GroupByCategory arranges recipes into guest-menu sections: categories in
// fixed display order, empty categories skipped, featured pours surfacing
// ahead of the rest of their section.
func GroupByCategory(all []models.Recipe) []Section {
	byCategory := make(map[string][]models.Recipe, len(models.MenuCategories))
	for _, recipe := range all {
		category := models.NormalizeCategory(recipe.Category)
		byCategory[category] = append(byCategory[category], recipe)
	}

	sections := make([]Section, 0, len(byCategory))
	for _, category := range models.MenuCategories {
		recipes := byCategory[category]
		if len(recipes) == 0 {
			continue
		}
		sections = append(sections, Section{Category: category, Recipes: featuredFirst(recipes)})
	}
	return sections
}

func featuredFirst(recipes []models.Recipe) []models.Recipe {
	ordered := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.IsCOTW {
			ordered = append(ordered, recipe)
		}
	}
	for _, recipe := range recipes {
		if !recipe.IsCOTW {
			ordered = append(ordered, recipe)
		}
	}
	return ordered
}

// DisplayLines renders a recipe's spec lines for the guest menu, metric
// volumes converted to ounce phrasing and blank lines dropped.
func DisplayLines(recipe models.Recipe) []string {
	lines := make([]string, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		line := strings.TrimSpace(row.RawText)
		if line == "" {
			continue
		}
		lines = append(lines, specs.ConvertMetric(line))
	}
	return lines
}
