package recipe

import (
	"context"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
)

// Repository is the Graph Store's Recipe-facing persistence contract.
type Repository interface {
	Create(ctx context.Context, r Recipe) (Recipe, error)
	GetByID(ctx context.Context, id int64) (Recipe, error)
	GetDetail(ctx context.Context, id int64) (Detail, error)
	List(ctx context.Context, query string, favoritesOnly bool, sortBy string, page, pageSize int) ([]Recipe, error)
	// All returns every Recipe unpaginated; used only by the Cascade Engine's
	// recalculate_all crash-recovery sweep.
	All(ctx context.Context) ([]Recipe, error)
	Update(ctx context.Context, id int64, update Update) (Recipe, error)
	// UpdateCache writes a freshly computed per-serving vector; called only by
	// the Cascade Engine, never directly by the Operation Surface.
	UpdateCache(ctx context.Context, id int64, cached fooditem.NutritionVector) error
	Delete(ctx context.Context, id int64) error
	Unused(ctx context.Context) ([]Recipe, error)

	Ingredients(ctx context.Context, recipeID int64) ([]Ingredient, error)
	AddIngredient(ctx context.Context, ing Ingredient) (Ingredient, error)
	UpdateIngredient(ctx context.Context, id int64, quantity *float64, unit, notes *string) (Ingredient, error)
	RemoveIngredient(ctx context.Context, id int64) error
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)

	Components(ctx context.Context, parentRecipeID int64) ([]Component, error)
	AddComponent(ctx context.Context, c Component) (Component, error)
	UpdateComponent(ctx context.Context, id int64, servings float64) (Component, error)
	RemoveComponent(ctx context.Context, id int64) error
	GetComponent(ctx context.Context, id int64) (Component, error)
	// ComponentsByChild returns every Component row whose child is the given
	// recipe id — the reverse edge used by ParentRecipes and by the cycle
	// check DFS.
	ComponentsByChild(ctx context.Context, childRecipeID int64) ([]Component, error)

	TimesLogged(ctx context.Context, recipeID int64) (int, error)
}
