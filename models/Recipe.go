package models

import (
	"strings"

	"gorm.io/gorm"
)

// Beer serving formats surfaced on the guest menu.
const (
	BeerTypeBottleCan = "Bottle/Can"
	BeerTypeDraft     = "Draft"
)

// Recipe is a single drink on the menu. The name is the record's identity:
// inserts with an existing name are rejected rather than merged.
type Recipe struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	Category     string `gorm:"not null;default:Uncategorized" json:"category"`
	Description  string `gorm:"type:text" json:"description"`
	Price        string `json:"price"`
	ImagePath    string `json:"image_path"`
	Spirit       string `json:"spirit"`
	Instructions string `gorm:"type:text" json:"instructions"`
	Glassware    string `json:"glassware"`
	Garnish      string `json:"garnish"`
	IsCOTW       bool   `gorm:"not null;default:false" json:"is_cotw"`
	IsCraft      bool   `gorm:"not null;default:false" json:"is_craft"`
	IsWell       bool   `gorm:"not null;default:false" json:"is_well"`
	BeerType     string `json:"beer_type"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

// InWineGroup reports which half of the featured-drink partition the recipe
// belongs to. Only one cocktail-of-the-week is allowed per group.
func (r Recipe) InWineGroup() bool {
	return WineGroup(r.Spirit)
}

// WineGroup reports whether a spirit string places a record in the wine-like
// type group (wines and sparkling pours share a featured slot).
func WineGroup(spirit string) bool {
	return strings.Contains(spirit, "Wine") || strings.Contains(spirit, "Sparkling")
}
