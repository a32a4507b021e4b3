package models

import (
	"gorm.io/gorm"
)

// RecipeIngredient is one spec line of a recipe, stored both structured and
// verbatim. RawText is never rewritten after insert; edits replace the whole
// ingredient set under the parent recipe.
type RecipeIngredient struct {
	gorm.Model
	RecipeID   uint    `gorm:"not null;index" json:"recipe_id"`
	Position   int     `gorm:"not null" json:"position"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
	RawText    string  `gorm:"not null" json:"raw_text"`
}
