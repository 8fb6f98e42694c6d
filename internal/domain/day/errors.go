package day

import "errors"

var (
	ErrInvalidID            = errors.New("invalid day ID")
	ErrInvalidDate          = errors.New("invalid date")
	ErrDayNotFound          = errors.New("day not found")
	ErrDayNotEmpty          = errors.New("day still contains meal entries")
	ErrMealEntryNotFound    = errors.New("meal entry not found")
	ErrInvalidSource        = errors.New("exactly one of recipe_id or food_item_id must be set")
	ErrInvalidServings      = errors.New("servings must be greater than zero")
	ErrInvalidPercentEaten  = errors.New("percent_eaten must be between 0 and 100")
	ErrSourceImmutable      = errors.New("a meal entry's source cannot be changed; delete and recreate instead")
)
