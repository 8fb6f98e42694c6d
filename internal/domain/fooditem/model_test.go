package fooditem

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjanat/nutricore/internal/domain/shared"
)

func TestUpdate_ConversionAnchorChanged(t *testing.T) {
	grams := 42.0
	baseUnit := shared.BaseUnitVolume
	servingUnit := "cup"

	cases := []struct {
		name   string
		update Update
		want   bool
	}{
		{"no fields set", Update{}, false},
		{"nutrition only", Update{Nutrition: &NutritionVector{Calories: 1}}, false},
		{"name only", Update{Name: new(string)}, false},
		{"base_unit_type", Update{BaseUnitType: &baseUnit}, true},
		{"grams_per_serving", Update{GramsPerServing: &grams}, true},
		{"ml_per_serving", Update{MLPerServing: &grams}, true},
		{"serving_size", Update{ServingSize: &grams}, true},
		{"serving_unit", Update{ServingUnit: &servingUnit}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.update.ConversionAnchorChanged())
		})
	}
}

func TestUpdate_NutritionChanged(t *testing.T) {
	assert.False(t, Update{}.NutritionChanged())
	assert.True(t, Update{Nutrition: &NutritionVector{Calories: 1}}.NutritionChanged())
}

func TestUpdate_IdentityChanged(t *testing.T) {
	name := "New Name"
	brand := "New Brand"
	assert.False(t, Update{}.IdentityChanged())
	assert.True(t, Update{Name: &name}.IdentityChanged())
	assert.True(t, Update{Brand: &brand}.IdentityChanged())
}
