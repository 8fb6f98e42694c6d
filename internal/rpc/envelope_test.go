package rpc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

func TestToEnvelope_Nil(t *testing.T) {
	assert.Nil(t, ToEnvelope(nil))
}

func TestToEnvelope_DomainError(t *testing.T) {
	err := shared.NewValidationError("name", "must not be empty")
	env := ToEnvelope(err)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "name", env.Details["field"])
	assert.NotEmpty(t, env.RequestID)
}

func TestToEnvelope_NotFoundSentinel(t *testing.T) {
	env := ToEnvelope(fooditem.ErrFoodItemNotFound)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "food_item", env.Details["entity"])
}

func TestToEnvelope_ValidationSentinel(t *testing.T) {
	env := ToEnvelope(recipe.ErrInvalidServingsProduced)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "servings_produced", env.Details["field"])
}

func TestToEnvelope_BusinessRuleSentinel(t *testing.T) {
	env := ToEnvelope(day.ErrDayNotEmpty)
	assert.Equal(t, "MODIFICATION_BLOCKED", env.Code)
	assert.Equal(t, "day", env.Details["entity"])
}

func TestToEnvelope_ComponentCycle(t *testing.T) {
	env := ToEnvelope(recipe.ErrComponentCycle)
	assert.Equal(t, "CIRCULAR_REFERENCE", env.Code)
}

func TestToEnvelope_UnrecognizedErrorFallsBackToStoreError(t *testing.T) {
	env := ToEnvelope(fmt.Errorf("connection refused"))
	assert.Equal(t, "STORE_ERROR", env.Code)
}

func TestToEnvelope_WrappedSentinelStillMatches(t *testing.T) {
	wrapped := fmt.Errorf("create recipe: %w", recipe.ErrRecipeNotFound)
	env := ToEnvelope(wrapped)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "recipe", env.Details["entity"])
}
