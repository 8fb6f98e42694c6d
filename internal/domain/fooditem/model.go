package fooditem

import (
	"time"

	"github.com/kjanat/nutricore/internal/domain/shared"
)

// NutritionVector is the nine-field per-serving nutrition payload carried by
// every FoodItem and every cached Recipe/MealEntry aggregate.
type NutritionVector struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Sodium       float64 `json:"sodium"`
	Sugar        float64 `json:"sugar"`
	SaturatedFat float64 `json:"saturated_fat"`
	Cholesterol  float64 `json:"cholesterol"`
}

// Scale multiplies every field of the vector by a scalar, returning a new vector.
func (v NutritionVector) Scale(factor float64) NutritionVector {
	return NutritionVector{
		Calories:     v.Calories * factor,
		Protein:      v.Protein * factor,
		Carbs:        v.Carbs * factor,
		Fat:          v.Fat * factor,
		Fiber:        v.Fiber * factor,
		Sodium:       v.Sodium * factor,
		Sugar:        v.Sugar * factor,
		SaturatedFat: v.SaturatedFat * factor,
		Cholesterol:  v.Cholesterol * factor,
	}
}

// Add returns the field-wise sum of two vectors.
func (v NutritionVector) Add(other NutritionVector) NutritionVector {
	return NutritionVector{
		Calories:     v.Calories + other.Calories,
		Protein:      v.Protein + other.Protein,
		Carbs:        v.Carbs + other.Carbs,
		Fat:          v.Fat + other.Fat,
		Fiber:        v.Fiber + other.Fiber,
		Sodium:       v.Sodium + other.Sodium,
		Sugar:        v.Sugar + other.Sugar,
		SaturatedFat: v.SaturatedFat + other.SaturatedFat,
		Cholesterol:  v.Cholesterol + other.Cholesterol,
	}
}

// IsNonNegative reports whether every field is >= 0; a negative field indicates
// corrupted input and must be rejected by the calculator.
func (v NutritionVector) IsNonNegative() bool {
	return v.Calories >= 0 && v.Protein >= 0 && v.Carbs >= 0 && v.Fat >= 0 &&
		v.Fiber >= 0 && v.Sodium >= 0 && v.Sugar >= 0 && v.SaturatedFat >= 0 && v.Cholesterol >= 0
}

// FoodItem is a leaf of the dependency graph: an atomic, purchasable or
// loggable food with a per-serving nutrition vector.
type FoodItem struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Brand  string `json:"brand,omitempty"`

	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`

	BaseUnitType shared.BaseUnitType `json:"base_unit_type"`

	GramsPerServing *float64 `json:"grams_per_serving,omitempty"`
	MLPerServing    *float64 `json:"ml_per_serving,omitempty"`

	Nutrition NutritionVector `json:"nutrition"`

	Preference shared.Preference `json:"preference"`
	Notes      string            `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conversion is a food-item-specific custom unit, e.g. "scoop" or "patty",
// resolving to a gram or millilitre equivalent.
type Conversion struct {
	ID              int64    `json:"id"`
	FoodItemID      int64    `json:"food_item_id"`
	UnitName        string   `json:"unit_name"`
	GramsEquivalent *float64 `json:"grams_equivalent,omitempty"`
	MLEquivalent    *float64 `json:"ml_equivalent,omitempty"`
}

// Update carries the fields that can be partially updated on a FoodItem.
// Pointer fields distinguish "not provided" from "set to zero value".
type Update struct {
	Name            *string              `json:"name,omitempty"`
	Brand           *string              `json:"brand,omitempty"`
	ServingSize     *float64             `json:"serving_size,omitempty"`
	ServingUnit     *string              `json:"serving_unit,omitempty"`
	BaseUnitType    *shared.BaseUnitType `json:"base_unit_type,omitempty"`
	GramsPerServing *float64             `json:"grams_per_serving,omitempty"`
	MLPerServing    *float64             `json:"ml_per_serving,omitempty"`
	Nutrition       *NutritionVector     `json:"nutrition,omitempty"`
	Preference      *shared.Preference   `json:"preference,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
}

// IdentityChanged reports whether this update touches name or brand, the
// fields guarded by the force flag in §4.3's integrity rules.
func (u Update) IdentityChanged() bool {
	return u.Name != nil || u.Brand != nil
}

// NutritionChanged reports whether this update touches any nutrition field,
// one of the two triggers for a single-edit cascade.
func (u Update) NutritionChanged() bool {
	return u.Nutrition != nil
}

// ConversionAnchorChanged reports whether this update touches a field the
// Unit Engine reads to convert a recipe ingredient's quantity into servings
// (base_unit_type, grams_per_serving, ml_per_serving) or the serving itself
// (serving_size, serving_unit). Any of these changes every dependent
// recipe's unit-engine multiplier just as surely as a Nutrition change
// does, and must trigger the same cascade.
func (u Update) ConversionAnchorChanged() bool {
	return u.BaseUnitType != nil || u.GramsPerServing != nil || u.MLPerServing != nil ||
		u.ServingSize != nil || u.ServingUnit != nil
}

// New constructs a FoodItem with sensible defaults for a freshly created row.
func New(name string, servingSize float64, servingUnit string, baseUnitType shared.BaseUnitType, nutrition NutritionVector) FoodItem {
	now := time.Now()
	return FoodItem{
		Name:         name,
		ServingSize:  servingSize,
		ServingUnit:  servingUnit,
		BaseUnitType: baseUnitType,
		Nutrition:    nutrition,
		Preference:   shared.PreferenceNeutral,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
