package unitengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

func gramsPerServing(v float64) *float64 { return &v }

func TestMultiplier_ServingAlias(t *testing.T) {
	e := New()
	food := fooditem.FoodItem{BaseUnitType: shared.BaseUnitMass, GramsPerServing: gramsPerServing(30)}
	m, err := e.Multiplier(food, nil, 2.5, "serving")
	require.NoError(t, err)
	assert.Equal(t, 2.5, m)
}

func TestMultiplier_MassCategoryMatch(t *testing.T) {
	e := New()
	food := fooditem.FoodItem{BaseUnitType: shared.BaseUnitMass, GramsPerServing: gramsPerServing(30)}
	m, err := e.Multiplier(food, nil, 90, "g")
	require.NoError(t, err)
	assert.InEpsilon(t, 3.0, m, 1e-9)
}

func TestMultiplier_VolumeCategoryMatch(t *testing.T) {
	e := New()
	food := fooditem.FoodItem{BaseUnitType: shared.BaseUnitVolume, MLPerServing: gramsPerServing(240)}
	m, err := e.Multiplier(food, nil, 1, "cup")
	require.NoError(t, err)
	assert.InEpsilon(t, 236.588/240, m, 1e-6)
}

func TestMultiplier_CountCategory(t *testing.T) {
	e := New()
	food := fooditem.FoodItem{BaseUnitType: shared.BaseUnitCount}
	m, err := e.Multiplier(food, nil, 3, "each")
	require.NoError(t, err)
	assert.Equal(t, 3.0, m)
}

func TestMultiplier_IncompatibleUnitWithoutConversion(t *testing.T) {
	e := New()
	food := fooditem.FoodItem{BaseUnitType: shared.BaseUnitMass, GramsPerServing: gramsPerServing(30)}
	_, err := e.Multiplier(food, nil, 2, "cup")
	require.Error(t, err)
	var incompatible shared.UnitIncompatibleError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, "cup", incompatible.GivenUnit)
}

// TestMultiplier_CompoundUnitRegression reproduces the historical "8 tbsp
// scaling bug": a peanut-butter food item whose serving_unit is "2 tbsp
// (20g)" must derive a custom tbsp->10g conversion, because tbsp is itself a
// recognized volume unit but the food's base category is mass. Without the
// derived conversion, 8 tbsp would silently fail to resolve to "4 servings".
func TestMultiplier_CompoundUnitRegression(t *testing.T) {
	e := New()

	smart, ok := e.ParseServingUnit("2 tbsp (20g)")
	require.True(t, ok)
	assert.Equal(t, shared.BaseUnitMass, smart.BaseUnitType)
	require.NotNil(t, smart.GramsPerServing)
	assert.InEpsilon(t, 20.0, *smart.GramsPerServing, 1e-9)

	unitName, grams, ml, ok := e.DeriveConversion("2 tbsp (20g)")
	require.True(t, ok)
	assert.Equal(t, "tbsp", unitName)
	require.NotNil(t, grams)
	assert.InEpsilon(t, 10.0, *grams, 1e-9)
	assert.Nil(t, ml)

	food := fooditem.FoodItem{
		BaseUnitType:    shared.BaseUnitMass,
		GramsPerServing: smart.GramsPerServing,
		Nutrition:       fooditem.NutritionVector{Calories: 190},
	}
	conversions := []fooditem.Conversion{{UnitName: unitName, GramsEquivalent: grams}}

	m, err := e.Multiplier(food, conversions, 8, "tbsp")
	require.NoError(t, err)
	assert.InEpsilon(t, 4.0, m, 1e-9)
	assert.InEpsilon(t, 760.0, food.Nutrition.Scale(m).Calories, 1e-9)
}

// TestDeriveConversion_MatchingCategorySkipped checks that a compound unit
// whose leading token already matches the annotation's category (e.g. "1
// cup (240ml)" for a volume-based food) needs no custom conversion: the
// primary categorized path in Multiplier already handles it.
func TestDeriveConversion_MatchingCategorySkipped(t *testing.T) {
	e := New()
	_, _, _, ok := e.DeriveConversion("1 cup (240ml)")
	assert.False(t, ok)
}

func TestConvertUnit_SameCategory(t *testing.T) {
	e := New()
	v, err := e.ConvertUnit(1, "kg", "g")
	require.NoError(t, err)
	assert.InEpsilon(t, 1000.0, v, 1e-9)
}

func TestConvertUnit_CrossCategoryRejected(t *testing.T) {
	e := New()
	_, err := e.ConvertUnit(1, "kg", "ml")
	assert.Error(t, err)
}

func TestParseServingUnit_NonCompoundForm(t *testing.T) {
	e := New()
	_, ok := e.ParseServingUnit("slice")
	assert.False(t, ok)
}
