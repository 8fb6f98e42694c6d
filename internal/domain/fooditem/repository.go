package fooditem

import "context"

// Repository is the Graph Store's FoodItem-facing persistence contract.
// Implementations must enforce the (food_item_id, unit_name) uniqueness
// invariant on conversions at the storage layer (unique index), not just in
// the service.
type Repository interface {
	Create(ctx context.Context, item FoodItem) (FoodItem, error)
	GetByID(ctx context.Context, id int64) (FoodItem, error)
	Search(ctx context.Context, query string, limit int) ([]FoodItem, error)
	List(ctx context.Context, preference *string, sortBy string, page, pageSize int) ([]FoodItem, error)
	Update(ctx context.Context, id int64, update Update) (FoodItem, error)
	Delete(ctx context.Context, id int64) error

	// UsageCount returns the number of distinct recipes referencing this food
	// item as an ingredient.
	UsageCount(ctx context.Context, id int64) (int, error)
	// UsedInRecipes returns the ids and names of recipes referencing this food
	// item as an ingredient.
	UsedInRecipes(ctx context.Context, id int64) (ids []int64, names []string, err error)
	// Unused returns every FoodItem referenced by no RecipeIngredient.
	Unused(ctx context.Context) ([]FoodItem, error)

	CreateConversion(ctx context.Context, c Conversion) (Conversion, error)
	DeleteConversion(ctx context.Context, foodItemID, conversionID int64) error
	ListConversions(ctx context.Context, foodItemID int64) ([]Conversion, error)
	GetConversion(ctx context.Context, foodItemID int64, unitName string) (Conversion, error)
}
