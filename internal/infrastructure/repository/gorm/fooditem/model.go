// Package fooditem implements fooditem.Repository against the Graph Store's
// embedded sqlite database, following the base codebase's
// repository-struct-wrapping-*gorm.DB idiom. Unlike most of the teacher's
// repositories (which annotate the domain struct directly with gorm tags),
// this entity's conversions sub-resource needs its own row shape, so this
// package keeps a dedicated GORM row struct and converts at the boundary —
// the same separation the teacher itself uses for meal.MealDB.
package fooditem

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

type FoodItemRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null;index"`
	Brand       string

	ServingSize float64 `gorm:"not null"`
	ServingUnit string  `gorm:"not null"`

	BaseUnitType string `gorm:"not null"`

	GramsPerServing *float64
	MLPerServing    *float64

	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Fiber        float64
	Sodium       float64
	Sugar        float64
	SaturatedFat float64
	Cholesterol  float64

	Preference string `gorm:"not null;default:NEUTRAL"`
	Notes      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FoodItemRow) TableName() string { return "food_items" }

func (r FoodItemRow) toDomain() fooditem.FoodItem {
	return fooditem.FoodItem{
		ID:              r.ID,
		Name:            r.Name,
		Brand:           r.Brand,
		ServingSize:     r.ServingSize,
		ServingUnit:     r.ServingUnit,
		BaseUnitType:    shared.BaseUnitType(r.BaseUnitType),
		GramsPerServing: r.GramsPerServing,
		MLPerServing:    r.MLPerServing,
		Nutrition: fooditem.NutritionVector{
			Calories:     r.Calories,
			Protein:      r.Protein,
			Carbs:        r.Carbs,
			Fat:          r.Fat,
			Fiber:        r.Fiber,
			Sodium:       r.Sodium,
			Sugar:        r.Sugar,
			SaturatedFat: r.SaturatedFat,
			Cholesterol:  r.Cholesterol,
		},
		Preference: shared.Preference(r.Preference),
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func rowFromDomain(f fooditem.FoodItem) FoodItemRow {
	return FoodItemRow{
		ID:              f.ID,
		Name:            f.Name,
		Brand:           f.Brand,
		ServingSize:     f.ServingSize,
		ServingUnit:     f.ServingUnit,
		BaseUnitType:    string(f.BaseUnitType),
		GramsPerServing: f.GramsPerServing,
		MLPerServing:    f.MLPerServing,
		Calories:        f.Nutrition.Calories,
		Protein:         f.Nutrition.Protein,
		Carbs:           f.Nutrition.Carbs,
		Fat:             f.Nutrition.Fat,
		Fiber:           f.Nutrition.Fiber,
		Sodium:          f.Nutrition.Sodium,
		Sugar:           f.Nutrition.Sugar,
		SaturatedFat:    f.Nutrition.SaturatedFat,
		Cholesterol:     f.Nutrition.Cholesterol,
		Preference:      string(f.Preference),
		Notes:           f.Notes,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

type ConversionRow struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	FoodItemID      int64  `gorm:"not null;uniqueIndex:idx_food_item_unit"`
	UnitName        string `gorm:"not null;uniqueIndex:idx_food_item_unit"`
	GramsEquivalent *float64
	MLEquivalent    *float64
}

func (ConversionRow) TableName() string { return "food_item_conversions" }

func (r ConversionRow) toDomain() fooditem.Conversion {
	return fooditem.Conversion{
		ID:              r.ID,
		FoodItemID:      r.FoodItemID,
		UnitName:        r.UnitName,
		GramsEquivalent: r.GramsEquivalent,
		MLEquivalent:    r.MLEquivalent,
	}
}

func conversionRowFromDomain(c fooditem.Conversion) ConversionRow {
	return ConversionRow{
		ID:              c.ID,
		FoodItemID:      c.FoodItemID,
		UnitName:        c.UnitName,
		GramsEquivalent: c.GramsEquivalent,
		MLEquivalent:    c.MLEquivalent,
	}
}

// RecipeIngredientRow mirrors recipe.Ingredient's storage shape; declared
// here too so this package can query "which recipes use this food item"
// without an import cycle against the recipe repository package.
type RecipeIngredientRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	RecipeID   int64 `gorm:"not null;index"`
	FoodItemID int64 `gorm:"not null;index"`
	Quantity   float64
	Unit       string
	Notes      string
}

func (RecipeIngredientRow) TableName() string { return "recipe_ingredients" }
