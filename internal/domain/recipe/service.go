package recipe

import (
	"context"
)

// CascadeResult reports how much recalculation a write triggered.
type CascadeResult struct {
	RecipesRecalculated int `json:"recipes_recalculated"`
	DaysRecalculated    int `json:"days_recalculated"`
}

// CreateInput is the Operation Surface payload for Recipe.create.
type CreateInput struct {
	Name             string  `json:"name" binding:"required"`
	ServingsProduced float64 `json:"servings_produced" binding:"required,gt=0"`
	Notes            string  `json:"notes"`
}

// UpdateInput is the Operation Surface payload for Recipe.update.
type UpdateInput struct {
	Update
	Force bool `json:"force"`
}

// ListInput is the Operation Surface payload for Recipe.list.
type ListInput struct {
	Query         string `json:"query"`
	FavoritesOnly bool   `json:"favorites_only"`
	SortBy        string `json:"sort_by" binding:"omitempty,oneof=name created_at"`
	Page          int    `json:"page" binding:"omitempty,gt=0"`
	PageSize      int    `json:"page_size" binding:"omitempty,gt=0"`
}

// AddIngredientInput is the Operation Surface payload for Recipe.add_ingredient.
type AddIngredientInput struct {
	FoodItemID int64   `json:"food_item_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	Unit       string  `json:"unit" binding:"required"`
	Notes      string  `json:"notes"`
}

// UpdateIngredientInput is the Operation Surface payload for
// Recipe.update_ingredient.
type UpdateIngredientInput struct {
	Quantity *float64 `json:"quantity,omitempty" binding:"omitempty,gt=0"`
	Unit     *string  `json:"unit,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// AddComponentInput is the Operation Surface payload for Recipe.add_component.
type AddComponentInput struct {
	ChildRecipeID int64   `json:"child_recipe_id" binding:"required"`
	Servings      float64 `json:"servings" binding:"required,gt=0"`
}

// BatchAddIngredientsInput is the payload for Recipe.batch_add_ingredients:
// "atomic: add-all-then-single-cascade" per spec §4.5.
type BatchAddIngredientsInput struct {
	Ingredients []AddIngredientInput `json:"ingredients" binding:"required,min=1,dive"`
}

// Service is the Recipe Operation Surface.
type Service interface {
	Create(ctx context.Context, in CreateInput) (Recipe, error)
	Get(ctx context.Context, id int64) (Detail, error)
	List(ctx context.Context, in ListInput) ([]Recipe, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Recipe, CascadeResult, error)
	Delete(ctx context.Context, id int64) error
	ListUnused(ctx context.Context) ([]Recipe, error)

	AddIngredient(ctx context.Context, recipeID int64, in AddIngredientInput) (Ingredient, CascadeResult, error)
	UpdateIngredient(ctx context.Context, recipeID, ingredientID int64, in UpdateIngredientInput) (Ingredient, CascadeResult, error)
	RemoveIngredient(ctx context.Context, recipeID, ingredientID int64) (CascadeResult, error)
	BatchAddIngredients(ctx context.Context, recipeID int64, in BatchAddIngredientsInput) ([]Ingredient, CascadeResult, error)

	AddComponent(ctx context.Context, parentRecipeID int64, in AddComponentInput) (Component, CascadeResult, error)
	UpdateComponent(ctx context.Context, parentRecipeID, componentID int64, servings float64) (Component, CascadeResult, error)
	RemoveComponent(ctx context.Context, parentRecipeID, componentID int64) (CascadeResult, error)

	Recalculate(ctx context.Context, id int64) (CascadeResult, error)

	// ParentRecipes returns the ids of recipes using this one as a component,
	// transitively closable per spec §4.3.
	ParentRecipes(ctx context.Context, id int64, transitive bool) ([]int64, error)
	// TimesLogged returns the number of MealEntry rows referencing this recipe.
	TimesLogged(ctx context.Context, id int64) (int, error)
}
