package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barkeep/models"
)

const snapshotFixture = `[
	{"name": "Old Fashioned", "spirit": "Bourbon", "price": 14, "spec_recipe": ["60ml Bourbon", "2 dashes Angostura Bitters"], "is_classic": true},
	{"name": "House Lager", "spirit": "Beer", "price": "7", "beer_type": "Draft"},
	{"name": "Garden Spritz", "spirit": "Non-Alcoholic", "description": "Bright and herbal.", "price": "9"}
]`

func writeSnapshot(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "menu.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}
	return path
}

func pointAtTempDatabase(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bar.db")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_PATH", path)
	return path
}

func openTestDatabase(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestRunImportsSnapshot(t *testing.T) {
	dir := t.TempDir()
	snapshot := writeSnapshot(t, dir, snapshotFixture)
	dbPath := pointAtTempDatabase(t, dir)

	if err := run(context.Background(), snapshot, false); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	db := openTestDatabase(t, dbPath)

	var count int64
	if err := db.Model(&models.Recipe{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count recipes: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 imported recipes, got %d", count)
	}

	var recipe models.Recipe
	if err := db.Preload("Ingredients").Where("name = ?", "Old Fashioned").First(&recipe).Error; err != nil {
		t.Fatalf("failed to load imported recipe: %v", err)
	}
	if recipe.Category != models.CategoryClassics {
		t.Fatalf("expected Classics category, got %q", recipe.Category)
	}
	if len(recipe.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredient rows, got %d", len(recipe.Ingredients))
	}
	if recipe.Ingredients[0].RawText != "60ml Bourbon" {
		t.Fatalf("expected spec line stored verbatim, got %q", recipe.Ingredients[0].RawText)
	}
	if recipe.Price != "14" {
		t.Fatalf("expected numeric price normalised to string, got %q", recipe.Price)
	}

	var lager models.Recipe
	if err := db.Where("name = ?", "House Lager").First(&lager).Error; err != nil {
		t.Fatalf("failed to load beer recipe: %v", err)
	}
	if lager.Category != models.CategoryBeer {
		t.Fatalf("expected Beer category, got %q", lager.Category)
	}

	// Re-running is additive-only: nothing new, nothing clobbered.
	if err := run(context.Background(), snapshot, false); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	if err := db.Model(&models.Recipe{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to recount recipes: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected re-run to import nothing, got %d recipes", count)
	}
}

func TestRunBackfillRefreshesCatalogFields(t *testing.T) {
	dir := t.TempDir()
	snapshot := writeSnapshot(t, dir, snapshotFixture)
	dbPath := pointAtTempDatabase(t, dir)

	if err := run(context.Background(), snapshot, false); err != nil {
		t.Fatalf("initial import returned error: %v", err)
	}

	refreshed := `[
		{"name": "Garden Spritz", "spirit": "Non-Alcoholic", "description": "Now with rosemary.", "price": "10"}
	]`
	snapshot = writeSnapshot(t, dir, refreshed)

	if err := run(context.Background(), snapshot, true); err != nil {
		t.Fatalf("backfill run returned error: %v", err)
	}

	db := openTestDatabase(t, dbPath)

	var recipe models.Recipe
	if err := db.Where("name = ?", "Garden Spritz").First(&recipe).Error; err != nil {
		t.Fatalf("failed to load backfilled recipe: %v", err)
	}
	if recipe.Description != "Now with rosemary." {
		t.Fatalf("expected refreshed description, got %q", recipe.Description)
	}
	if recipe.Price != "10" {
		t.Fatalf("expected refreshed price, got %q", recipe.Price)
	}
	if recipe.Category != models.CategoryZeroProof {
		t.Fatalf("expected category to survive backfill, got %q", recipe.Category)
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count recipes: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected backfill to add no recipes, got %d", count)
	}
}

func TestRunRejectsUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	pointAtTempDatabase(t, dir)

	// A directory is not a readable snapshot.
	if err := run(context.Background(), dir, false); err == nil {
		t.Fatal("expected error for unreadable snapshot source")
	}
}
