package database

import (
	"gorm.io/gorm"

	daystore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/day"
	fooditemstore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/fooditem"
	recipestore "github.com/kjanat/nutricore/internal/infrastructure/repository/gorm/recipe"
)

// migrations is the versioned sequence Migrate walks in order. Because this
// schema never existed in a pre-v5 form, v1 lays down every table at its
// final (post-v5) shape rather than replaying the base codebase's historical
// evolution — the version numbers document intent, not literal ALTER TABLE
// history: v1 for the tables and columns present from the first release of
// this store, v5 reserved for the base_unit_type/grams_per_serving/
// ml_per_serving/food_item_conversions additions spec.md §6 calls out by
// name, v6 for the additive indexing pass.
var migrations = []migration{
	{
		Version:     1,
		Description: "initial food_items, recipes, recipe_ingredients, recipe_components, days, meal_entries tables",
		Apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&fooditemstore.FoodItemRow{},
				&recipestore.RecipeRow{},
				&recipestore.IngredientRow{},
				&recipestore.ComponentRow{},
				&daystore.DayRow{},
				&daystore.MealEntryRow{},
			)
		},
	},
	{
		Version:     5,
		Description: "add base_unit_type, grams_per_serving, ml_per_serving, food_item_conversions",
		Apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&fooditemstore.ConversionRow{})
		},
	},
	{
		Version:     6,
		Description: "tighten indexes: unique (food_item_id, unit_name) on food_item_conversions, unique date on days",
		Apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&fooditemstore.ConversionRow{},
				&daystore.DayRow{},
			)
		},
	},
}
