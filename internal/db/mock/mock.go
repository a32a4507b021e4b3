package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "barkeep/internal/log"
	"barkeep/internal/specs"
	"barkeep/models"
)

// New returns an in-memory sqlite database seeded with a working menu
// and a bartender account (service@barkeep.app / speakeasy).
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:barkeep-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.User{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("speakeasy"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	bartender := &models.User{
		Name:         "Sam Cutter",
		Email:        "service@barkeep.app",
		PasswordHash: string(password),
	}
	if err := db.WithContext(ctx).Create(bartender).Error; err != nil {
		return err
	}

	recipes := []*models.Recipe{
		{
			Name:         "Old Fashioned",
			Category:     models.CategoryClassics,
			Spirit:       "Bourbon",
			Price:        "14",
			Glassware:    "Rocks",
			Garnish:      "Orange peel",
			Instructions: "Stir with ice until well chilled, strain over a large cube.",
			IsCOTW:       true,
			Ingredients: specRows(
				"2 oz Bourbon",
				"2 dashes Angostura Bitters",
				"1 Sugar Cube",
			),
		},
		{
			Name:         "Negroni",
			Category:     models.CategoryClassics,
			Spirit:       "Gin",
			Price:        "13",
			Glassware:    "Rocks",
			Garnish:      "Orange slice",
			Instructions: "Stir over ice, strain, serve on fresh ice.",
			Ingredients: specRows(
				"30ml Gin",
				"30ml Campari",
				"30ml Sweet Vermouth",
			),
		},
		{
			Name:         "Paper Plane",
			Category:     models.CategoryCraftCocktails,
			Spirit:       "Bourbon",
			Price:        "15",
			Glassware:    "Coupe",
			Garnish:      "None",
			Instructions: "Shake hard with ice, double strain.",
			IsCraft:      true,
			Ingredients: specRows(
				"0.75 oz Bourbon",
				"0.75 oz Aperol",
				"0.75 oz Amaro Nonino",
				"0.75 oz Lemon Juice",
			),
		},
		{
			Name:     "House Lager",
			Category: models.CategoryBeer,
			Spirit:   "Beer",
			Price:    "7",
			BeerType: models.BeerTypeDraft,
		},
		{
			Name:        "House Red",
			Category:    models.CategoryWine,
			Spirit:      "Red Wine",
			Price:       "12 / 40 (bottle)",
			Description: "Rotating by-the-glass pour, ask what is open.",
			IsCOTW:      true,
		},
		{
			Name:         "Garden Spritz",
			Category:     models.CategoryZeroProof,
			Spirit:       "Non-Alcoholic",
			Price:        "9",
			Glassware:    "Highball",
			Garnish:      "Cucumber ribbon",
			Instructions: "Build over ice, top with soda.",
			Ingredients: specRows(
				"45ml Seedlip Garden",
				"15ml Lime Juice",
				"Soda water",
			),
		},
	}

	for _, recipe := range recipes {
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].Position = i
		}
		if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}

func specRows(lines ...string) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		parsed := specs.ParseLine(line)
		rows = append(rows, models.RecipeIngredient{
			Amount:     parsed.Amount,
			Unit:       parsed.Unit,
			Ingredient: parsed.Ingredient,
			RawText:    line,
		})
	}
	return rows
}
