// Package menu persists drink recipes and answers the queries the menu
// and admin surfaces are built from.
package menu

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"barkeep/models"
)

// ErrNameTaken is returned when a rename would collide with another
// recipe's name.
var ErrNameTaken = errors.New("recipe name already taken")

// Store wraps the shared database handle with the recipe operations the
// handlers and importer are written against.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// SaveNew inserts a recipe together with its ingredient rows. A recipe
// whose name is already taken is silently skipped and reported as not
// created so bulk imports can re-run without erroring. A recipe arriving
// featured displaces any previous feature in its pour group, same as
// Replace and SetFeatured.
func (s *Store) SaveNew(ctx context.Context, recipe *models.Recipe) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("name = ?", recipe.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		recipe.Category = models.NormalizeCategory(recipe.Category)
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].Position = i
		}
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		if recipe.IsCOTW {
			if err := clearFeatured(tx, recipe.ID, models.WineGroup(recipe.Spirit)); err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	return created, err
}

// List returns every recipe with its ingredient rows in spec order,
// recipes sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Order("name ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *Store) GetByName(ctx context.Context, name string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Where("name = ?", name).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Replace overwrites every editable field of a stored recipe and swaps
// its ingredient set for the submitted one in a single transaction. Old
// ingredient rows are removed for good rather than soft-deleted so the
// table never accumulates dead lines.
func (s *Store) Replace(ctx context.Context, id uint, updated *models.Recipe) (*models.Recipe, error) {
	var stored models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stored, id).Error; err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&models.Recipe{}).
			Where("name = ? AND id <> ?", updated.Name, id).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrNameTaken
		}

		updates := map[string]any{
			"name":         updated.Name,
			"category":     models.NormalizeCategory(updated.Category),
			"description":  updated.Description,
			"price":        updated.Price,
			"image_path":   updated.ImagePath,
			"spirit":       updated.Spirit,
			"instructions": updated.Instructions,
			"glassware":    updated.Glassware,
			"garnish":      updated.Garnish,
			"is_cotw":      updated.IsCOTW,
			"is_craft":     updated.IsCraft,
			"is_well":      updated.IsWell,
			"beer_type":    updated.BeerType,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range updated.Ingredients {
			row := updated.Ingredients[i]
			row.ID = 0
			row.RecipeID = id
			row.Position = i
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if updated.IsCOTW {
			if err := clearFeatured(tx, id, models.WineGroup(updated.Spirit)); err != nil {
				return err
			}
		}

		return tx.Preload("Ingredients", orderedIngredients).First(&stored, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// RefreshCatalogFields overwrites the catalog-sourced display fields of
// the named recipe. Category, feature flags and ingredient rows stay
// untouched. Returns false when no recipe carries the name.
func (s *Store) RefreshCatalogFields(ctx context.Context, name, description, imagePath, price, spirit string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"description": description,
			"image_path":  imagePath,
			"price":       price,
			"spirit":      spirit,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetImagePath points a recipe at a newly stored menu photo and returns
// the refreshed recipe.
func (s *Store) SetImagePath(ctx context.Context, id uint, imagePath string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Update("image_path", imagePath).Error; err != nil {
			return err
		}
		return tx.Preload("Ingredients", orderedIngredients).First(&recipe, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe and its ingredient rows permanently so the
// name is immediately free for a new recipe.
func (s *Store) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&recipe).Error
	})
}

// SetFeatured marks or unmarks a recipe as the cocktail of the week.
// Featuring a recipe unfeatures every other recipe in the same pour
// group, so each group holds at most one feature at a time. Wine and
// sparkling pours form one group, everything else the other.
func (s *Store) SetFeatured(ctx context.Context, id uint, featured bool) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if featured {
			if err := clearFeatured(tx, recipe.ID, models.WineGroup(recipe.Spirit)); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Update("is_cotw", featured).Error; err != nil {
			return err
		}
		return tx.Preload("Ingredients", orderedIngredients).First(&recipe, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// clearFeatured unsets is_cotw on every recipe in the given pour group
// except keepID. Group membership is decided in Go so it always agrees
// with models.WineGroup regardless of database collation.
func clearFeatured(tx *gorm.DB, keepID uint, wineGroup bool) error {
	var flagged []models.Recipe
	if err := tx.Where("is_cotw = ?", true).Find(&flagged).Error; err != nil {
		return err
	}

	var ids []uint
	for _, other := range flagged {
		if other.ID == keepID {
			continue
		}
		if models.WineGroup(other.Spirit) == wineGroup {
			ids = append(ids, other.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.Recipe{}).Where("id IN ?", ids).Update("is_cotw", false).Error
}
