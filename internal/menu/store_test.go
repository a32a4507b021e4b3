package menu

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barkeep/models"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.Recipe{}, &models.RecipeIngredient{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db), db
}

func negroni() *models.Recipe {
	return &models.Recipe{
		Name:     "Negroni",
		Category: models.CategoryClassics,
		Spirit:   "Gin",
		Price:    "14",
		Ingredients: []models.RecipeIngredient{
			{Amount: 1, Unit: "oz", Ingredient: "Gin", RawText: "1 oz Gin"},
			{Amount: 1, Unit: "oz", Ingredient: "Campari", RawText: "1 oz Campari"},
			{Amount: 1, Unit: "oz", Ingredient: "Sweet Vermouth", RawText: "1 oz Sweet Vermouth"},
		},
	}
}

func TestSaveNewSkipsDuplicateNames(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	created, err := store.SaveNew(ctx, negroni())
	if err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}
	if !created {
		t.Fatal("expected first save to create the recipe")
	}

	duplicate := negroni()
	duplicate.Description = "an impostor"
	created, err = store.SaveNew(ctx, duplicate)
	if err != nil {
		t.Fatalf("expected duplicate save to be a quiet no-op, got %v", err)
	}
	if created {
		t.Fatal("expected duplicate save to report not created")
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Where("name = ?", "Negroni").Count(&count).Error; err != nil {
		t.Fatalf("failed to count recipes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored Negroni, found %d", count)
	}

	stored, err := store.GetByName(ctx, "Negroni")
	if err != nil {
		t.Fatalf("failed to load recipe: %v", err)
	}
	if stored.Description != "" {
		t.Fatalf("duplicate save leaked fields into the stored recipe: %q", stored.Description)
	}
	if len(stored.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredient rows, got %d", len(stored.Ingredients))
	}
	for i, row := range stored.Ingredients {
		if row.Position != i {
			t.Fatalf("ingredient %d stored at position %d", i, row.Position)
		}
	}
	if stored.Ingredients[1].RawText != "1 oz Campari" {
		t.Fatalf("raw text not preserved: %q", stored.Ingredients[1].RawText)
	}
}

func TestSaveNewNormalizesCategory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	recipe := &models.Recipe{Name: "Mystery Pour", Category: "Secret Menu"}
	if _, err := store.SaveNew(ctx, recipe); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}

	stored, err := store.GetByName(ctx, "Mystery Pour")
	if err != nil {
		t.Fatalf("failed to load recipe: %v", err)
	}
	if stored.Category != models.CategoryUncategorized {
		t.Fatalf("expected unknown category to collapse to %q, got %q", models.CategoryUncategorized, stored.Category)
	}
}

func TestReplaceSwapsIngredientSet(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	original := negroni()
	original.Description = "stirred and bitter"
	original.IsCraft = true
	if _, err := store.SaveNew(ctx, original); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}

	updated := &models.Recipe{
		Name:     "Boulevardier",
		Category: models.CategoryCraftCocktails,
		Spirit:   "Bourbon",
		Price:    "15",
		Ingredients: []models.RecipeIngredient{
			{Amount: 1.5, Unit: "oz", Ingredient: "Bourbon", RawText: "1.5 oz Bourbon"},
			{Amount: 1, Unit: "oz", Ingredient: "Campari", RawText: "1 oz Campari"},
		},
	}
	stored, err := store.Replace(ctx, original.ID, updated)
	if err != nil {
		t.Fatalf("failed to replace recipe: %v", err)
	}

	if stored.Name != "Boulevardier" || stored.Spirit != "Bourbon" || stored.Price != "15" {
		t.Fatalf("scalar fields not replaced: %+v", stored)
	}
	if stored.Description != "" {
		t.Fatalf("expected description cleared, got %q", stored.Description)
	}
	if stored.IsCraft {
		t.Fatal("expected craft flag cleared by replace")
	}
	if len(stored.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient rows after replace, got %d", len(stored.Ingredients))
	}
	for i, row := range stored.Ingredients {
		if row.Position != i {
			t.Fatalf("ingredient %d stored at position %d", i, row.Position)
		}
	}

	var total int64
	if err := db.Unscoped().Model(&models.RecipeIngredient{}).Count(&total).Error; err != nil {
		t.Fatalf("failed to count ingredient rows: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected old ingredient rows removed permanently, table holds %d", total)
	}
}

func TestReplaceMissingRecipe(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Replace(context.Background(), 404, negroni())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestReplaceRejectsTakenName(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := negroni()
	if _, err := store.SaveNew(ctx, first); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}
	second := &models.Recipe{Name: "Boulevardier", Category: models.CategoryClassics, Spirit: "Bourbon"}
	if _, err := store.SaveNew(ctx, second); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}

	_, err := store.Replace(ctx, second.ID, negroni())
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected name-taken error, got %v", err)
	}

	kept, err := store.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("failed to reload recipe: %v", err)
	}
	if kept.Name != "Boulevardier" {
		t.Fatalf("expected rejected rename to leave recipe untouched, got %q", kept.Name)
	}

	renamed := negroni()
	renamed.Name = "Negroni"
	if _, err := store.Replace(ctx, first.ID, renamed); err != nil {
		t.Fatalf("expected keeping own name to succeed, got %v", err)
	}
}

func TestSetImagePath(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	recipe := negroni()
	if _, err := store.SaveNew(ctx, recipe); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}

	updated, err := store.SetImagePath(ctx, recipe.ID, "/uploads/negroni.jpg")
	if err != nil {
		t.Fatalf("failed to set image path: %v", err)
	}
	if updated.ImagePath != "/uploads/negroni.jpg" {
		t.Fatalf("expected image path stored, got %q", updated.ImagePath)
	}
	if len(updated.Ingredients) != 3 {
		t.Fatalf("expected refreshed recipe to carry ingredients, got %d", len(updated.Ingredients))
	}

	if _, err := store.SetImagePath(ctx, 404, "/uploads/ghost.jpg"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for unknown id, got %v", err)
	}
}

func TestDeleteFreesNameForReuse(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	first := negroni()
	if _, err := store.SaveNew(ctx, first); err != nil {
		t.Fatalf("failed to save recipe: %v", err)
	}
	if err := store.Delete(ctx, first.ID); err != nil {
		t.Fatalf("failed to delete recipe: %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&models.Recipe{}).Where("name = ?", "Negroni").Count(&count).Error; err != nil {
		t.Fatalf("failed to count recipes: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected permanent delete, found %d rows", count)
	}
	if err := db.Unscoped().Model(&models.RecipeIngredient{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count ingredient rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected ingredient rows removed with their recipe, found %d", count)
	}

	created, err := store.SaveNew(ctx, negroni())
	if err != nil {
		t.Fatalf("failed to reuse freed name: %v", err)
	}
	if !created {
		t.Fatal("expected freed name to accept a new recipe")
	}

	if err := store.Delete(ctx, 404); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found for unknown id, got %v", err)
	}
}

func TestSetFeaturedKeepsOnePerPourGroup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	oldFashioned := &models.Recipe{Name: "Old Fashioned", Category: models.CategoryClassics, Spirit: "Bourbon"}
	margarita := &models.Recipe{Name: "Margarita", Category: models.CategoryClassics, Spirit: "Tequila"}
	houseRed := &models.Recipe{Name: "House Red", Category: models.CategoryWine, Spirit: "Red Wine"}
	bubbles := &models.Recipe{Name: "Bubbles", Category: models.CategoryWine, Spirit: "Sparkling"}
	for _, recipe := range []*models.Recipe{oldFashioned, margarita, houseRed, bubbles} {
		if _, err := store.SaveNew(ctx, recipe); err != nil {
			t.Fatalf("failed to save %s: %v", recipe.Name, err)
		}
	}

	if _, err := store.SetFeatured(ctx, oldFashioned.ID, true); err != nil {
		t.Fatalf("failed to feature Old Fashioned: %v", err)
	}
	if _, err := store.SetFeatured(ctx, houseRed.ID, true); err != nil {
		t.Fatalf("failed to feature House Red: %v", err)
	}

	assertFeatured := func(wantFeatured map[string]bool) {
		t.Helper()
		recipes, err := store.List(ctx)
		if err != nil {
			t.Fatalf("failed to list recipes: %v", err)
		}
		for _, recipe := range recipes {
			if recipe.IsCOTW != wantFeatured[recipe.Name] {
				t.Fatalf("%s featured=%v, want %v", recipe.Name, recipe.IsCOTW, wantFeatured[recipe.Name])
			}
		}
	}

	assertFeatured(map[string]bool{"Old Fashioned": true, "House Red": true})

	// A new cocktail feature displaces the old one but leaves wine alone.
	if _, err := store.SetFeatured(ctx, margarita.ID, true); err != nil {
		t.Fatalf("failed to feature Margarita: %v", err)
	}
	assertFeatured(map[string]bool{"Margarita": true, "House Red": true})

	// Sparkling pours share the wine group.
	if _, err := store.SetFeatured(ctx, bubbles.ID, true); err != nil {
		t.Fatalf("failed to feature Bubbles: %v", err)
	}
	assertFeatured(map[string]bool{"Margarita": true, "Bubbles": true})

	// Re-featuring the current pick must not clear it.
	if _, err := store.SetFeatured(ctx, margarita.ID, true); err != nil {
		t.Fatalf("failed to re-feature Margarita: %v", err)
	}
	assertFeatured(map[string]bool{"Margarita": true, "Bubbles": true})

	if _, err := store.SetFeatured(ctx, margarita.ID, false); err != nil {
		t.Fatalf("failed to unfeature Margarita: %v", err)
	}
	assertFeatured(map[string]bool{"Bubbles": true})
}

func TestReplaceFeaturingClearsGroup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	margarita := &models.Recipe{Name: "Margarita", Category: models.CategoryClassics, Spirit: "Tequila"}
	daiquiri := &models.Recipe{Name: "Daiquiri", Category: models.CategoryClassics, Spirit: "Rum"}
	for _, recipe := range []*models.Recipe{margarita, daiquiri} {
		if _, err := store.SaveNew(ctx, recipe); err != nil {
			t.Fatalf("failed to save %s: %v", recipe.Name, err)
		}
	}
	if _, err := store.SetFeatured(ctx, margarita.ID, true); err != nil {
		t.Fatalf("failed to feature Margarita: %v", err)
	}

	update := &models.Recipe{Name: "Daiquiri", Category: models.CategoryClassics, Spirit: "Rum", IsCOTW: true}
	if _, err := store.Replace(ctx, daiquiri.ID, update); err != nil {
		t.Fatalf("failed to replace recipe: %v", err)
	}

	former, err := store.Get(ctx, margarita.ID)
	if err != nil {
		t.Fatalf("failed to load recipe: %v", err)
	}
	if former.IsCOTW {
		t.Fatal("expected replace with feature flag to displace the previous feature")
	}
}

func TestSaveNewFeaturingClearsGroup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	margarita := &models.Recipe{Name: "Margarita", Category: models.CategoryClassics, Spirit: "Tequila", IsCOTW: true}
	houseRed := &models.Recipe{Name: "House Red", Category: models.CategoryWine, Spirit: "Red Wine", IsCOTW: true}
	bubbles := &models.Recipe{Name: "House Bubbles", Category: models.CategoryWine, Spirit: "Sparkling", IsCOTW: true}
	for _, recipe := range []*models.Recipe{margarita, houseRed, bubbles} {
		if _, err := store.SaveNew(ctx, recipe); err != nil {
			t.Fatalf("failed to save %s: %v", recipe.Name, err)
		}
	}

	// House Bubbles displaces House Red inside the wine group; the
	// cocktail feature is not theirs to clear.
	wantFeatured := map[string]bool{"Margarita": true, "House Bubbles": true}
	recipes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	for _, recipe := range recipes {
		if recipe.IsCOTW != wantFeatured[recipe.Name] {
			t.Fatalf("%s featured=%v, want %v", recipe.Name, recipe.IsCOTW, wantFeatured[recipe.Name])
		}
	}
}

func TestGetMissingRecipe(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get(context.Background(), 9000); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
	if _, err := store.GetByName(context.Background(), "Nothing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestListOrdersByName(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zombie", "Aviation", "Mai Tai"} {
		if _, err := store.SaveNew(ctx, &models.Recipe{Name: name, Category: models.CategoryClassics}); err != nil {
			t.Fatalf("failed to save %s: %v", name, err)
		}
	}

	recipes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	want := []string{"Aviation", "Mai Tai", "Zombie"}
	if len(recipes) != len(want) {
		t.Fatalf("expected %d recipes, got %d", len(want), len(recipes))
	}
	for i, name := range want {
		if recipes[i].Name != name {
			t.Fatalf("recipe %d is %q, want %q", i, recipes[i].Name, name)
		}
	}
}
