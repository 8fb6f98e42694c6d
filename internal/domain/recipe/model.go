package recipe

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
)

// Recipe composes FoodItems (via Ingredient) and other Recipes (via
// Component) into a per-serving nutrition aggregate maintained by the
// Cascade Engine.
type Recipe struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	ServingsProduced float64 `json:"servings_produced"`
	IsFavorite       bool    `json:"is_favorite"`

	// CachedPerServing equals calculator.per_serving(R) after every successful
	// write; see spec.md §8 invariant 1.
	CachedPerServing fooditem.NutritionVector `json:"cached_per_serving"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ingredient is a food→recipe edge: a FoodItem consumed by a Recipe in a
// given quantity and unit.
type Ingredient struct {
	ID         int64   `json:"id"`
	RecipeID   int64   `json:"recipe_id"`
	FoodItemID int64   `json:"food_item_id"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Notes      string  `json:"notes,omitempty"`
}

// Component is a child_recipe→parent_recipe edge: a Recipe used as a
// sub-recipe of another Recipe.
type Component struct {
	ID             int64   `json:"id"`
	ParentRecipeID int64   `json:"parent_recipe_id"`
	ChildRecipeID  int64   `json:"child_recipe_id"`
	Servings       float64 `json:"servings"`
}

// Detail is the get-verb's result: a Recipe plus its ingredients and
// components, per spec §4.5 ("Recipe: get (returns ingredients, components,
// per-serving nutrition)").
type Detail struct {
	Recipe
	Ingredients []Ingredient `json:"ingredients"`
	Components  []Component  `json:"components"`
}

// Update carries the fields that can be partially updated on a Recipe.
type Update struct {
	Name             *string  `json:"name,omitempty"`
	ServingsProduced *float64 `json:"servings_produced,omitempty"`
	IsFavorite       *bool    `json:"is_favorite,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// IdentityChanged reports whether this update touches the name field.
func (u Update) IdentityChanged() bool {
	return u.Name != nil
}

// ServingsChanged reports whether this update touches servings_produced, the
// trigger for a cascade per spec §4.3.
func (u Update) ServingsChanged() bool {
	return u.ServingsProduced != nil
}

// New constructs a Recipe with sensible defaults for a freshly created,
// ingredient-less row.
func New(name string, servingsProduced float64) Recipe {
	now := time.Now()
	return Recipe{
		Name:             name,
		ServingsProduced: servingsProduced,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
