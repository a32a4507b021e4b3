package importer

import (
	"context"
	"strings"

	applog "barkeep/internal/log"
	"barkeep/internal/menu"
	"barkeep/internal/specs"
	"barkeep/models"
)

// Migrate copies legacy records into the store in snapshot order and
// returns how many were newly inserted. Records whose name is already
// stored are skipped untouched, so the migration is additive-only and
// safe to re-run. A record that fails to insert is logged and skipped
// rather than aborting the rest of the batch.
func Migrate(ctx context.Context, records []LegacyRecipe, store *menu.Store) int {
	imported := 0
	for _, record := range records {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			applog.Error(ctx, "skipping legacy record without a name")
			continue
		}

		created, err := store.SaveNew(ctx, BuildRecipe(record))
		if err != nil {
			applog.Error(ctx, "failed to import legacy record", "error", err, "name", name)
			continue
		}
		if created {
			imported++
		}
	}
	return imported
}

// Backfill overwrites description, image, price and spirit on records
// that were already migrated, matched by name. Category and ingredient
// rows are never touched, and names absent from the store are ignored,
// so repeated runs settle on the same state.
func Backfill(ctx context.Context, records []LegacyRecipe, store *menu.Store) int {
	updated := 0
	for _, record := range records {
		name := strings.TrimSpace(record.Name)
		if name == "" {
			continue
		}

		refreshed, err := store.RefreshCatalogFields(ctx, name, record.Description, record.ImagePath, string(record.Price), record.Spirit)
		if err != nil {
			applog.Error(ctx, "failed to backfill legacy record", "error", err, "name", name)
			continue
		}
		if refreshed {
			updated++
		}
	}
	return updated
}

// BuildRecipe turns a legacy record into a storable recipe: the name is
// trimmed, the category classified, and every non-blank spec line kept
// verbatim alongside its parsed amount, unit and ingredient.
func BuildRecipe(record LegacyRecipe) *models.Recipe {
	recipe := &models.Recipe{
		Name:         strings.TrimSpace(record.Name),
		Category:     Classify(record),
		Description:  record.Description,
		Price:        string(record.Price),
		ImagePath:    record.ImagePath,
		Spirit:       record.Spirit,
		Instructions: record.Instructions,
		Glassware:    record.Glassware,
		Garnish:      record.Garnish,
		IsCOTW:       record.IsCOTW,
		IsCraft:      record.IsCraft,
		IsWell:       record.IsWell,
		BeerType:     record.BeerType,
	}

	for _, line := range record.SpecLines() {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parsed := specs.ParseLine(trimmed)
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			Amount:     parsed.Amount,
			Unit:       parsed.Unit,
			Ingredient: parsed.Ingredient,
			RawText:    trimmed,
		})
	}
	return recipe
}
