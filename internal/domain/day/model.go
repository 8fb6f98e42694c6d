package day

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

// SourceKind distinguishes the two possible sources of a MealEntry.
type SourceKind string

const (
	SourceFoodItem SourceKind = "FOOD_ITEM"
	SourceRecipe   SourceKind = "RECIPE"
)

// Source is the polymorphic tagged variant {FoodItem(id) | Recipe(id)} that
// spec.md §9 Design Notes calls for modeling explicitly at the application
// layer, even though the underlying row uses two nullable FK columns whose
// exactly-one rule is checked in application code, not by a database
// constraint.
type Source struct {
	Kind       SourceKind `json:"kind"`
	FoodItemID int64      `json:"food_item_id,omitempty"`
	RecipeID   int64      `json:"recipe_id,omitempty"`
}

// IsValid reports whether exactly one of FoodItemID/RecipeID is set,
// consistent with its Kind — spec.md §8 invariant 5.
func (s Source) IsValid() bool {
	switch s.Kind {
	case SourceFoodItem:
		return s.FoodItemID > 0 && s.RecipeID == 0
	case SourceRecipe:
		return s.RecipeID > 0 && s.FoodItemID == 0
	default:
		return false
	}
}

// FoodItemSource constructs a Source pointing at a FoodItem.
func FoodItemSource(id int64) Source {
	return Source{Kind: SourceFoodItem, FoodItemID: id}
}

// RecipeSource constructs a Source pointing at a Recipe.
func RecipeSource(id int64) Source {
	return Source{Kind: SourceRecipe, RecipeID: id}
}

// Day is implicitly created on the first MealEntry logged for a date.
type Day struct {
	ID                  int64                    `json:"id"`
	Date                time.Time                `json:"date"`
	CachedTotals        fooditem.NutritionVector `json:"cached_totals"`
	CachedCaloriesBurned *float64                `json:"cached_calories_burned,omitempty"`
	Notes               string                   `json:"notes,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// MealEntry records consumption of a Source on a Day.
type MealEntry struct {
	ID           int64                    `json:"id"`
	DayID        int64                    `json:"day_id"`
	MealType     shared.MealType          `json:"meal_type"`
	Source       Source                   `json:"source"`
	Servings     float64                  `json:"servings"`
	PercentEaten float64                  `json:"percent_eaten"`
	Cached       fooditem.NutritionVector `json:"cached"`
	Notes        string                   `json:"notes,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// Grouped is the get_day result shape: meals grouped by meal_type plus totals.
type Grouped struct {
	Day
	MealsByType map[shared.MealType][]MealEntry `json:"meals_by_type"`
}

// MealEntryUpdate carries the mutable fields of a MealEntry. Source is
// intentionally absent: source identity is immutable per spec §3's
// Lifecycle rule ("change of source requires delete + recreate").
type MealEntryUpdate struct {
	MealType     *shared.MealType `json:"meal_type,omitempty"`
	Servings     *float64         `json:"servings,omitempty"`
	PercentEaten *float64         `json:"percent_eaten,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// DayUpdate carries the only mutable Day field: notes (per spec §4.5,
// update_day is "notes only").
type DayUpdate struct {
	Notes *string `json:"notes,omitempty"`
}

// NewDay constructs a Day for a given date with zeroed cached totals.
func NewDay(date time.Time) Day {
	now := time.Now()
	return Day{
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
