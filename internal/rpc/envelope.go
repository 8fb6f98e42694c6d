// Package rpc provides the thin Operation Surface transport scaffolding
// named in SPEC_FULL §13: a dispatch table keyed by verb name and a
// newline-delimited JSON request/response loop over an io.Reader/io.Writer
// pair. Transport framing beyond this is explicitly out of scope.
package rpc

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kjanat/nutricore/internal/domain/day"
	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/recipe"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

// Envelope is the top-level response shape: at most one of Result or Error
// is set. A verb that succeeds without a value (the delete verbs,
// batch.start_batch_update) yields an envelope with neither.
type Envelope struct {
	Result any            `json:"result,omitempty"`
	Error  *ErrorEnvelope `json:"error,omitempty"`
}

// ErrorEnvelope is the structured error shape backing spec.md §7's error
// kinds, built generically from any shared.DomainError via ToEnvelope.
type ErrorEnvelope struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// notFoundSentinels maps every domain package's not-found sentinel to the
// entity name used in the NotFound{entity,id} error kind; none of these
// sentinels carry an id themselves, so the envelope's Details omits it.
var notFoundSentinels = map[error]string{
	fooditem.ErrFoodItemNotFound: "food_item",
	recipe.ErrRecipeNotFound:     "recipe",
	recipe.ErrIngredientNotFound: "recipe_ingredient",
	recipe.ErrComponentNotFound:  "recipe_component",
	day.ErrDayNotFound:           "day",
	day.ErrMealEntryNotFound:     "meal_entry",
}

var validationSentinels = map[error]string{
	fooditem.ErrInvalidName:          "name",
	fooditem.ErrInvalidServingSize:   "serving_size",
	fooditem.ErrInvalidBaseUnitType:  "base_unit_type",
	fooditem.ErrNegativeNutritionField: "nutrition",
	fooditem.ErrInvalidConversion:    "conversion",
	recipe.ErrInvalidName:            "name",
	recipe.ErrInvalidServingsProduced: "servings_produced",
	recipe.ErrInvalidQuantity:        "quantity",
	recipe.ErrInvalidComponentServings: "servings",
	day.ErrInvalidDate:               "date",
	day.ErrInvalidSource:             "source",
	day.ErrInvalidServings:           "servings",
	day.ErrInvalidPercentEaten:       "percent_eaten",
	day.ErrSourceImmutable:           "source",
}

var businessRuleSentinels = map[error]string{
	fooditem.ErrFoodItemInUse:        "food_item",
	fooditem.ErrDuplicateConversionUnit: "conversion",
	recipe.ErrRecipeInUse:            "recipe",
	recipe.ErrDuplicateIngredient:    "ingredient",
	recipe.ErrDuplicateComponent:     "component",
	recipe.ErrSelfComponent:          "component",
	day.ErrDayNotEmpty:               "day",
}

// ToEnvelope builds a structured ErrorEnvelope from any error returned by
// the Operation Surface, dispatching on shared.DomainError when the service
// layer already raised a structured kind and falling back to the sentinel
// tables above for the plain `errors.New` kinds each domain package defines.
func ToEnvelope(err error) *ErrorEnvelope {
	if err == nil {
		return nil
	}

	var domainErr shared.DomainError
	if errors.As(err, &domainErr) {
		return &ErrorEnvelope{
			Code:      domainErr.Code(),
			Message:   domainErr.Error(),
			Details:   domainErr.Details(),
			RequestID: uuid.NewString(),
		}
	}

	for sentinel, entity := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return &ErrorEnvelope{
				Code:      "NOT_FOUND",
				Message:   err.Error(),
				Details:   map[string]any{"entity": entity},
				RequestID: uuid.NewString(),
			}
		}
	}
	for sentinel, field := range validationSentinels {
		if errors.Is(err, sentinel) {
			return &ErrorEnvelope{
				Code:      "VALIDATION",
				Message:   err.Error(),
				Details:   map[string]any{"field": field},
				RequestID: uuid.NewString(),
			}
		}
	}
	for sentinel, entity := range businessRuleSentinels {
		if errors.Is(err, sentinel) {
			return &ErrorEnvelope{
				Code:      "MODIFICATION_BLOCKED",
				Message:   err.Error(),
				Details:   map[string]any{"entity": entity},
				RequestID: uuid.NewString(),
			}
		}
	}
	if errors.Is(err, recipe.ErrComponentCycle) {
		return &ErrorEnvelope{
			Code:      "CIRCULAR_REFERENCE",
			Message:   err.Error(),
			RequestID: uuid.NewString(),
		}
	}

	return &ErrorEnvelope{
		Code:      "STORE_ERROR",
		Message:   err.Error(),
		RequestID: uuid.NewString(),
	}
}
