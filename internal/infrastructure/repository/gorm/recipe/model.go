// Package recipe implements recipe.Repository against the Graph Store.
package recipe

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
)

type RecipeRow struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	Name             string `gorm:"not null;index"`
	ServingsProduced float64 `gorm:"not null"`
	IsFavorite       bool

	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Fiber        float64
	Sodium       float64
	Sugar        float64
	SaturatedFat float64
	Cholesterol  float64

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RecipeRow) TableName() string { return "recipes" }

func (r RecipeRow) toDomain() recipe.Recipe {
	return recipe.Recipe{
		ID:               r.ID,
		Name:             r.Name,
		ServingsProduced: r.ServingsProduced,
		IsFavorite:       r.IsFavorite,
		CachedPerServing: fooditem.NutritionVector{
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
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func rowFromDomain(rec recipe.Recipe) RecipeRow {
	return RecipeRow{
		ID:               rec.ID,
		Name:             rec.Name,
		ServingsProduced: rec.ServingsProduced,
		IsFavorite:       rec.IsFavorite,
		Calories:         rec.CachedPerServing.Calories,
		Protein:          rec.CachedPerServing.Protein,
		Carbs:            rec.CachedPerServing.Carbs,
		Fat:              rec.CachedPerServing.Fat,
		Fiber:            rec.CachedPerServing.Fiber,
		Sodium:           rec.CachedPerServing.Sodium,
		Sugar:            rec.CachedPerServing.Sugar,
		SaturatedFat:     rec.CachedPerServing.SaturatedFat,
		Cholesterol:      rec.CachedPerServing.Cholesterol,
		Notes:            rec.Notes,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

type IngredientRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	RecipeID   int64 `gorm:"not null;uniqueIndex:idx_recipe_food_item"`
	FoodItemID int64 `gorm:"not null;uniqueIndex:idx_recipe_food_item"`
	Quantity   float64
	Unit       string
	Notes      string
}

func (IngredientRow) TableName() string { return "recipe_ingredients" }

func (r IngredientRow) toDomain() recipe.Ingredient {
	return recipe.Ingredient{ID: r.ID, RecipeID: r.RecipeID, FoodItemID: r.FoodItemID, Quantity: r.Quantity, Unit: r.Unit, Notes: r.Notes}
}

type ComponentRow struct {
	ID             int64 `gorm:"primaryKey;autoIncrement;column:id"`
	ParentRecipeID int64 `gorm:"not null;uniqueIndex:idx_parent_child;column:parent_recipe_id"`
	ChildRecipeID  int64 `gorm:"not null;uniqueIndex:idx_parent_child;column:child_recipe_id"`
	Servings       float64
}

func (ComponentRow) TableName() string { return "recipe_components" }

func (r ComponentRow) toDomain() recipe.Component {
	return recipe.Component{ID: r.ID, ParentRecipeID: r.ParentRecipeID, ChildRecipeID: r.ChildRecipeID, Servings: r.Servings}
}
