package fooditem

import (
	"context"

	"github.com/kjanat/nutricore/internal/domain/shared"
)

// CascadeResult reports how much recalculation a write triggered, per spec
// §4.5: "All write verbs return the affected entity's new state plus, where
// applicable, {recipes_recalculated, days_recalculated} counts."
type CascadeResult struct {
	RecipesRecalculated int `json:"recipes_recalculated"`
	DaysRecalculated    int `json:"days_recalculated"`
}

// CreateInput is the Operation Surface payload for FoodItem.add.
type CreateInput struct {
	Name            string             `json:"name" binding:"required"`
	Brand           string             `json:"brand"`
	ServingSize     float64            `json:"serving_size" binding:"required,gt=0"`
	ServingUnit     string             `json:"serving_unit" binding:"required"`
	BaseUnitType    string             `json:"base_unit_type" binding:"omitempty,oneof=MASS VOLUME COUNT"`
	GramsPerServing *float64           `json:"grams_per_serving" binding:"omitempty,gt=0"`
	MLPerServing    *float64           `json:"ml_per_serving" binding:"omitempty,gt=0"`
	Nutrition       NutritionVector    `json:"nutrition"`
	Preference      shared.Preference  `json:"preference"`
	Notes           string             `json:"notes"`
}

// UpdateInput is the Operation Surface payload for FoodItem.update.
type UpdateInput struct {
	Update
	Force bool `json:"force"`
}

// SearchInput is the Operation Surface payload for FoodItem.search.
type SearchInput struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit" binding:"omitempty,gt=0"`
}

// ListInput is the Operation Surface payload for FoodItem.list.
type ListInput struct {
	Preference *shared.Preference `json:"preference"`
	SortBy     string             `json:"sort_by" binding:"omitempty,oneof=name created_at calories"`
	Page       int                `json:"page" binding:"omitempty,gt=0"`
	PageSize   int                `json:"page_size" binding:"omitempty,gt=0"`
}

// Detail is the get-verb's result: a FoodItem enriched with usage metadata.
type Detail struct {
	FoodItem
	UsageCount           int      `json:"usage_count"`
	ReferencingRecipeIDs []int64  `json:"referencing_recipe_ids,omitempty"`
	ReferencingRecipes   []string `json:"referencing_recipe_names,omitempty"`
}

// Service is the FoodItem Operation Surface: transaction-scoped wrappers
// around the Repository that validate inputs, apply integrity guards, and
// trigger the Cascade Engine where applicable.
type Service interface {
	Add(ctx context.Context, in CreateInput) (FoodItem, error)
	Get(ctx context.Context, id int64, maxReferencingRecipes int) (Detail, error)
	Search(ctx context.Context, in SearchInput) ([]FoodItem, error)
	List(ctx context.Context, in ListInput) ([]FoodItem, error)
	Update(ctx context.Context, id int64, in UpdateInput) (FoodItem, CascadeResult, error)
	Delete(ctx context.Context, id int64) error
	ListUnused(ctx context.Context) ([]FoodItem, error)

	AddConversion(ctx context.Context, foodItemID int64, unitName string, gramsEquivalent, mlEquivalent *float64) (Conversion, error)
	RemoveConversion(ctx context.Context, foodItemID int64, conversionID int64) error
	ListConversions(ctx context.Context, foodItemID int64) ([]Conversion, error)
}
