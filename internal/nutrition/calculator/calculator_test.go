package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
	"github.com/kjanat/nutricore/internal/nutrition/unitengine"
)

func ptr(v float64) *float64 { return &v }

func TestFoodConsumption_ScalesByMultiplier(t *testing.T) {
	c := New(unitengine.New())
	food := fooditem.FoodItem{
		BaseUnitType:    shared.BaseUnitMass,
		GramsPerServing: ptr(30),
		Nutrition:       fooditem.NutritionVector{Calories: 120, Protein: 5},
	}
	out, err := c.FoodConsumption(food, nil, 60, "g")
	require.NoError(t, err)
	assert.InEpsilon(t, 240.0, out.Calories, 1e-9)
	assert.InEpsilon(t, 10.0, out.Protein, 1e-9)
}

func TestFoodConsumption_RejectsNegativeNutrition(t *testing.T) {
	c := New(unitengine.New())
	food := fooditem.FoodItem{
		BaseUnitType:    shared.BaseUnitMass,
		GramsPerServing: ptr(30),
		Nutrition:       fooditem.NutritionVector{Calories: -1},
	}
	_, err := c.FoodConsumption(food, nil, 30, "g")
	require.Error(t, err)
	var invariant shared.InvariantViolationError
	assert.ErrorAs(t, err, &invariant)
}

func TestPerServingConsumption_ServingsAndPercent(t *testing.T) {
	c := New(unitengine.New())
	perServing := fooditem.NutritionVector{Calories: 100, Protein: 10}
	out, err := c.PerServingConsumption(perServing, 2, 50)
	require.NoError(t, err)
	assert.InEpsilon(t, 100.0, out.Calories, 1e-9)
	assert.InEpsilon(t, 10.0, out.Protein, 1e-9)
}

func TestRecipePerServing_SumsIngredientsAndComponents(t *testing.T) {
	c := New(unitengine.New())
	ingredients := []IngredientContribution{
		{FoodItemID: 1, Vector: fooditem.NutritionVector{Calories: 200}},
		{FoodItemID: 2, Vector: fooditem.NutritionVector{Calories: 100}},
	}
	components := []ComponentContribution{
		{ChildRecipeID: 9, Vector: fooditem.NutritionVector{Calories: 300}},
	}
	out, err := c.RecipePerServing(ingredients, components, 3)
	require.NoError(t, err)
	assert.InEpsilon(t, 200.0, out.Calories, 1e-9) // (200+100+300)/3
}

func TestRecipePerServing_RejectsZeroServingsProduced(t *testing.T) {
	c := New(unitengine.New())
	_, err := c.RecipePerServing(nil, nil, 0)
	require.Error(t, err)
}

func TestRecipePerServing_RejectsNegativeContribution(t *testing.T) {
	c := New(unitengine.New())
	ingredients := []IngredientContribution{{FoodItemID: 1, Vector: fooditem.NutritionVector{Calories: -5}}}
	_, err := c.RecipePerServing(ingredients, nil, 1)
	require.Error(t, err)
}

func TestSanitizeVector_ReplacesNaNAndInf(t *testing.T) {
	ingredients := []IngredientContribution{{FoodItemID: 1, Vector: fooditem.NutritionVector{Calories: 1e250}}}
	v, err := New(unitengine.New()).RecipePerServing(ingredients, nil, 1e-200)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Calories)
}

func TestVectorsWithinTolerance(t *testing.T) {
	a := fooditem.NutritionVector{Calories: 100.0000001}
	b := fooditem.NutritionVector{Calories: 100.0000002}
	assert.True(t, VectorsWithinTolerance(a, b, 1e-6))
	assert.False(t, VectorsWithinTolerance(a, b, 1e-9))
}
