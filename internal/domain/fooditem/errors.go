package fooditem

import "errors"

// Domain errors specific to FoodItem, following the sentinel-error idiom used
// across every domain package.
var (
	ErrInvalidID              = errors.New("invalid food item ID")
	ErrInvalidName             = errors.New("food item name is required")
	ErrInvalidServingSize      = errors.New("serving size must be greater than zero")
	ErrInvalidBaseUnitType     = errors.New("invalid base unit type")
	ErrMissingGramsPerServing  = errors.New("grams_per_serving is required for mass or count base unit type")
	ErrMissingMLPerServing     = errors.New("ml_per_serving is required for volume base unit type")
	ErrNegativeNutritionField  = errors.New("nutrition fields must be non-negative")
	ErrFoodItemNotFound        = errors.New("food item not found")
	ErrFoodItemInUse           = errors.New("food item is referenced by one or more recipes")
	ErrDuplicateConversionUnit = errors.New("a conversion for this unit already exists for this food item")
	ErrInvalidConversion       = errors.New("conversion must set exactly one of grams_equivalent or ml_equivalent")
)
