package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kjanat/nutricore/internal/domain/shared"
)

// Handler processes one verb's decoded params and returns the value to
// place in the Envelope's Result field, or an error to translate via
// ToEnvelope.
type Handler func(params json.RawMessage) (any, error)

// Dispatcher maps Operation Surface verb names (spec.md §4: "food_item.add",
// "recipe.recalculate", "day.log_meal", ...) to the Handler that serves them.
type Dispatcher struct {
	handlers map[string]Handler
	validate *validator.Validate
}

// NewDispatcher creates an empty Dispatcher. Register verbs with Handle.
//
// Operation Surface input structs carry `binding:"..."` tags in the idiom
// established across the domain packages rather than `validate:"..."` ones;
// SetTagName points this validator at that tag name instead of duplicating
// every constraint under a second struct tag.
func NewDispatcher() *Dispatcher {
	v := validator.New()
	v.SetTagName("binding")
	return &Dispatcher{
		handlers: make(map[string]Handler),
		validate: v,
	}
}

// Handle registers a Handler for a verb, overwriting any prior registration.
func (d *Dispatcher) Handle(verb string, h Handler) {
	d.handlers[verb] = h
}

// bind decodes a verb's params into an empty value of type T, validates
// it against its `binding` struct tags via go-playground/validator, and
// invokes fn with the validated value. Handlers built with bind are the
// normal case; Handle with a raw Handler is for verbs with no input struct
// (e.g. "batch.start_batch_update" ignores its params entirely).
func bind[T any](d *Dispatcher, params json.RawMessage, fn func(T) (any, error)) (any, error) {
	var in T
	if len(params) > 0 {
		if err := json.Unmarshal(params, &in); err != nil {
			return nil, fmt.Errorf("decode params: %w", err)
		}
	}
	if err := d.validate.Struct(in); err != nil {
		return nil, translateValidationError(err)
	}
	return fn(in)
}

// translateValidationError surfaces the first failing field from a
// validator.ValidationErrors as a shared ValidationError so ToEnvelope
// renders it the same way as a service-level validation failure.
func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		fe := verrs[0]
		return shared.NewValidationError(fe.Field(), fmt.Sprintf("failed on %q", fe.Tag()))
	}
	return err
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

// Dispatch looks up verb and invokes its Handler. An unknown verb is
// reported as a STORE_ERROR-coded envelope; ToEnvelope does not special-case
// it because no domain package owns "unknown verb" as a sentinel.
func (d *Dispatcher) Dispatch(verb string, params json.RawMessage) (any, error) {
	h, ok := d.handlers[verb]
	if !ok {
		return nil, fmt.Errorf("unknown verb %q", verb)
	}
	return h(params)
}
