// Package calculator implements the Nutrition Calculator of spec.md §4.2: it
// produces a nine-field nutrition vector for a consumption event, scaling a
// FoodItem or Recipe's per-serving vector by a unit-engine multiplier or by
// servings×percent. It is deliberately a small, stateless type — the same
// shape the base codebase uses for its HealthScoreCalculator: a struct whose
// only field is the unit engine it delegates to, composing pure functions,
// with no repository or I/O dependency.
package calculator

import (
	"math"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
)

// Calculator is the stateless Nutrition Calculator of spec.md §4.2.
type Calculator struct {
	units unitengine.Engine
}

// New constructs a new Nutrition Calculator.
func New(units unitengine.Engine) Calculator {
	return Calculator{units: units}
}

// FoodConsumption computes output = food's per-serving vector × multiplier
// for a (food, qty, unit) consumption event.
func (c Calculator) FoodConsumption(food fooditem.FoodItem, conversions []fooditem.Conversion, quantity float64, unit string) (fooditem.NutritionVector, error) {
	if !food.Nutrition.IsNonNegative() {
		return fooditem.NutritionVector{}, shared.NewInvariantViolationError("food item has a negative nutrition field")
	}
	multiplier, err := c.units.Multiplier(food, conversions, quantity, unit)
	if err != nil {
		return fooditem.NutritionVector{}, err
	}
	return SanitizeVector(food.Nutrition.Scale(multiplier)), nil
}

// PerServingConsumption computes output = a per-serving vector × servings ×
// percent/100. A Day.MealEntry logs consumption purely in servings (no raw
// quantity/unit), so this same formula applies whether the entry's source is
// a FoodItem's Nutrition or a Recipe's CachedPerServing.
func (Calculator) PerServingConsumption(perServing fooditem.NutritionVector, servings, percentEaten float64) (fooditem.NutritionVector, error) {
	if !perServing.IsNonNegative() {
		return fooditem.NutritionVector{}, shared.NewInvariantViolationError("per-serving vector has a negative nutrition field")
	}
	factor := servings * (percentEaten / 100)
	return SanitizeVector(perServing.Scale(factor)), nil
}

// RecipeConsumption is PerServingConsumption specialized for a Recipe's
// cached per-serving vector.
func (c Calculator) RecipeConsumption(cachedPerServing fooditem.NutritionVector, servings, percentEaten float64) (fooditem.NutritionVector, error) {
	return c.PerServingConsumption(cachedPerServing, servings, percentEaten)
}

// IngredientContribution is one recipe ingredient's nutrition contribution,
// already scaled via the Unit Engine: food_nutrition × unit_engine_multiplier.
type IngredientContribution struct {
	FoodItemID int64
	Vector     fooditem.NutritionVector
}

// ComponentContribution is one recipe component's nutrition contribution:
// child_recipe.cached_per_serving × component.servings.
type ComponentContribution struct {
	ChildRecipeID int64
	Vector        fooditem.NutritionVector
}

// RecipePerServing computes a Recipe's per-serving cache: the sum over all
// ingredient contributions plus the sum over all component contributions,
// divided by servings_produced. This is the recalculation target maintained
// by the Cascade Engine.
func (Calculator) RecipePerServing(ingredients []IngredientContribution, components []ComponentContribution, servingsProduced float64) (fooditem.NutritionVector, error) {
	if servingsProduced <= 0 {
		return fooditem.NutritionVector{}, shared.NewInvariantViolationError("servings_produced must be greater than zero")
	}

	var total fooditem.NutritionVector
	for _, ing := range ingredients {
		if !ing.Vector.IsNonNegative() {
			return fooditem.NutritionVector{}, shared.NewInvariantViolationError("ingredient contribution has a negative nutrition field")
		}
		total = total.Add(ing.Vector)
	}
	for _, comp := range components {
		if !comp.Vector.IsNonNegative() {
			return fooditem.NutritionVector{}, shared.NewInvariantViolationError("component contribution has a negative nutrition field")
		}
		total = total.Add(comp.Vector)
	}

	return SanitizeVector(total.Scale(1 / servingsProduced)), nil
}

// SanitizeVector guards against NaN/Inf creeping into a cached aggregate
// through a division by a near-zero servings value; grounded on the base
// codebase's shared.SanitizeFloat64 helper, applied field-wise here.
func SanitizeVector(v fooditem.NutritionVector) fooditem.NutritionVector {
	return fooditem.NutritionVector{
		Calories:     sanitizeFloat64(v.Calories),
		Protein:      sanitizeFloat64(v.Protein),
		Carbs:        sanitizeFloat64(v.Carbs),
		Fat:          sanitizeFloat64(v.Fat),
		Fiber:        sanitizeFloat64(v.Fiber),
		Sodium:       sanitizeFloat64(v.Sodium),
		Sugar:        sanitizeFloat64(v.Sugar),
		SaturatedFat: sanitizeFloat64(v.SaturatedFat),
		Cholesterol:  sanitizeFloat64(v.Cholesterol),
	}
}

func sanitizeFloat64(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0.0
	}
	return value
}

// VectorsWithinTolerance reports whether two vectors are equal within an
// absolute per-field tolerance, used by tests asserting spec.md §8 invariant
// 1 (R.cached = calculator.per_serving(R) within 1e-6).
func VectorsWithinTolerance(a, b fooditem.NutritionVector, tolerance float64) bool {
	return math.Abs(a.Calories-b.Calories) <= tolerance &&
		math.Abs(a.Protein-b.Protein) <= tolerance &&
		math.Abs(a.Carbs-b.Carbs) <= tolerance &&
		math.Abs(a.Fat-b.Fat) <= tolerance &&
		math.Abs(a.Fiber-b.Fiber) <= tolerance &&
		math.Abs(a.Sodium-b.Sodium) <= tolerance &&
		math.Abs(a.Sugar-b.Sugar) <= tolerance &&
		math.Abs(a.SaturatedFat-b.SaturatedFat) <= tolerance &&
		math.Abs(a.Cholesterol-b.Cholesterol) <= tolerance
}
