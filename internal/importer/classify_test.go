package importer

import (
	"testing"

	"barkeep/models"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		record LegacyRecipe
		want   string
	}{
		{"feature flag beats spirit", LegacyRecipe{IsCOTW: true, Spirit: "Red Wine"}, models.CategoryFeaturedSips},
		{"beer spirit", LegacyRecipe{Spirit: "Beer"}, models.CategoryBeer},
		{"beer type without spirit", LegacyRecipe{BeerType: "Draft"}, models.CategoryBeer},
		{"beer type beats wine", LegacyRecipe{Spirit: "Barleywine", BeerType: "Bottle/Can"}, models.CategoryBeer},
		{"white wine", LegacyRecipe{Spirit: "White Wine"}, models.CategoryWine},
		{"wine substring", LegacyRecipe{Spirit: "Sparkling Wine"}, models.CategoryWine},
		{"zero proof", LegacyRecipe{Spirit: "Non-Alcoholic"}, models.CategoryZeroProof},
		{"craft flag", LegacyRecipe{IsCraft: true, Spirit: "Gin"}, models.CategoryCraftCocktails},
		{"wine beats craft flag", LegacyRecipe{IsCraft: true, Spirit: "Red Wine"}, models.CategoryWine},
		{"classic flag", LegacyRecipe{IsClassic: true, Spirit: "Rum"}, models.CategoryClassics},
		{"bare spirit stays out of liquors", LegacyRecipe{Spirit: "Vodka"}, models.CategoryClassics},
		{"bare sparkling without wine", LegacyRecipe{Spirit: "Sparkling"}, models.CategoryClassics},
		{"empty record defaults", LegacyRecipe{}, models.CategoryClassics},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.record); got != tt.want {
				t.Fatalf("Classify(%+v) = %q, want %q", tt.record, got, tt.want)
			}
			if again := Classify(tt.record); again != tt.want {
				t.Fatalf("Classify not deterministic for %+v: %q then %q", tt.record, tt.want, again)
			}
		})
	}
}
