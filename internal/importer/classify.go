package importer

import (
	"strings"

	"barkeep/models"
)

// Classify assigns a menu category to a legacy record. The rules run in
// fixed precedence order and the first match wins, so the result is
// deterministic for a given record.
func Classify(record LegacyRecipe) string {
	switch {
	case record.IsCOTW:
		return models.CategoryFeaturedSips
	case record.Spirit == "Beer" || record.BeerType != "":
		return models.CategoryBeer
	case strings.Contains(record.Spirit, "Wine"):
		return models.CategoryWine
	case record.Spirit == "Non-Alcoholic":
		return models.CategoryZeroProof
	case record.IsCraft:
		return models.CategoryCraftCocktails
	case record.IsClassic:
		return models.CategoryClassics
	}

	// Bare-spirit records (Tequila, Vodka, Gin, Rum, Whiskey, Bourbon)
	// historically fell through to the default instead of landing in
	// Liquors. That behavior is load-bearing for re-imported menus, so
	// the branch stays a no-op and Liquors remains a manual shelf.
	return models.CategoryClassics
}
