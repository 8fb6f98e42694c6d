package recipe

import "errors"

var (
	ErrInvalidID              = errors.New("invalid recipe ID")
	ErrInvalidName            = errors.New("recipe name is required")
	ErrInvalidServingsProduced = errors.New("servings_produced must be greater than zero")
	ErrRecipeNotFound         = errors.New("recipe not found")
	ErrRecipeInUse            = errors.New("recipe is referenced by a meal entry or as a component of another recipe")
	ErrIngredientNotFound     = errors.New("recipe ingredient not found")
	ErrDuplicateIngredient    = errors.New("this food item is already an ingredient of this recipe")
	ErrInvalidQuantity        = errors.New("ingredient quantity must be greater than zero")
	ErrComponentNotFound      = errors.New("recipe component not found")
	ErrDuplicateComponent     = errors.New("this recipe is already a component of the parent recipe")
	ErrSelfComponent          = errors.New("a recipe cannot be a component of itself")
	ErrComponentCycle         = errors.New("adding this component would create a cycle")
	ErrInvalidComponentServings = errors.New("component servings must be greater than zero")
)
