package models

import "strings"

// The closed set of menu categories. Every recipe carries exactly one.
const (
	CategoryFeaturedSips   = "Featured Sips"
	CategoryCraftCocktails = "Craft Cocktails"
	CategoryClassics       = "Classics"
	CategoryBeer           = "Beer"
	CategoryWine           = "Wine"
	CategoryZeroProof      = "Zero Proof"
	CategoryLiquors        = "Liquors"
	CategoryUncategorized  = "Uncategorized"
)

// DefaultCategory is applied to records created without an explicit shelf.
const DefaultCategory = CategoryUncategorized

// MenuCategories lists every category in guest-menu display order.
var MenuCategories = []string{
	CategoryFeaturedSips,
	CategoryCraftCocktails,
	CategoryClassics,
	CategoryBeer,
	CategoryWine,
	CategoryZeroProof,
	CategoryLiquors,
	CategoryUncategorized,
}

// ValidCategory reports whether value is one of the known menu categories.
func ValidCategory(value string) bool {
	for _, category := range MenuCategories {
		if value == category {
			return true
		}
	}
	return false
}

// NormalizeCategory trims the provided value and falls back to
// DefaultCategory when it is empty or not part of the taxonomy.
func NormalizeCategory(value string) string {
	trimmed := strings.TrimSpace(value)
	if !ValidCategory(trimmed) {
		return DefaultCategory
	}
	return trimmed
}
