package shared

import "fmt"

// DomainError is implemented by every structured error kind in this package
// so the RPC transport can build an error envelope generically.
type DomainError interface {
	error
	Code() string
	Details() map[string]any
}

// ValidationError represents a validation error with field information.
// Backs the Validation{field, reason} error kind.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e ValidationError) Code() string { return "VALIDATION" }

func (e ValidationError) Details() map[string]any {
	return map[string]any{"field": e.Field, "reason": e.Message}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// BusinessRuleError represents an integrity guard refusing a mutation.
// Backs the ModificationBlocked{entity, reason, blockers} error kind.
type BusinessRuleError struct {
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Blockers []string `json:"blockers,omitempty"`
}

func (e BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation '%s': %s", e.Rule, e.Message)
}

func (e BusinessRuleError) Code() string { return "MODIFICATION_BLOCKED" }

func (e BusinessRuleError) Details() map[string]any {
	return map[string]any{"entity": e.Rule, "reason": e.Message, "blockers": e.Blockers}
}

// NewBusinessRuleError creates a new business rule error.
func NewBusinessRuleError(rule, message string, blockers ...string) BusinessRuleError {
	return BusinessRuleError{Rule: rule, Message: message, Blockers: blockers}
}

// NotFoundError backs the NotFound{entity, id} error kind.
type NotFoundError struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e NotFoundError) Code() string { return "NOT_FOUND" }

func (e NotFoundError) Details() map[string]any {
	return map[string]any{"entity": e.Entity, "id": e.ID}
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(entity string, id int64) NotFoundError {
	return NotFoundError{Entity: entity, ID: id}
}

// UnitIncompatibleError backs the UnitIncompatible{given_unit, food_base} error kind.
type UnitIncompatibleError struct {
	GivenUnit string `json:"given_unit"`
	FoodBase  string `json:"food_base"`
}

func (e UnitIncompatibleError) Error() string {
	return fmt.Sprintf("unit %q is incompatible with food base category %q", e.GivenUnit, e.FoodBase)
}

func (e UnitIncompatibleError) Code() string { return "UNIT_INCOMPATIBLE" }

func (e UnitIncompatibleError) Details() map[string]any {
	return map[string]any{"given_unit": e.GivenUnit, "food_base": e.FoodBase}
}

// NewUnitIncompatibleError creates a new unit-incompatible error.
func NewUnitIncompatibleError(givenUnit, foodBase string) UnitIncompatibleError {
	return UnitIncompatibleError{GivenUnit: givenUnit, FoodBase: foodBase}
}

// CircularReferenceError backs the CircularReference{path} error kind.
type CircularReferenceError struct {
	Path []int64 `json:"path"`
}

func (e CircularReferenceError) Error() string {
	return fmt.Sprintf("adding this component would create a cycle: %v", e.Path)
}

func (e CircularReferenceError) Code() string { return "CIRCULAR_REFERENCE" }

func (e CircularReferenceError) Details() map[string]any {
	return map[string]any{"path": e.Path}
}

// NewCircularReferenceError creates a new circular-reference error.
func NewCircularReferenceError(path []int64) CircularReferenceError {
	return CircularReferenceError{Path: path}
}

// StoreError backs the StoreError{detail} error kind: underlying persistence failure.
type StoreError struct {
	Detail string `json:"detail"`
}

func (e StoreError) Error() string { return fmt.Sprintf("store error: %s", e.Detail) }

func (e StoreError) Code() string { return "STORE_ERROR" }

func (e StoreError) Details() map[string]any {
	return map[string]any{"detail": e.Detail}
}

// NewStoreError creates a new store error, wrapping an underlying cause.
func NewStoreError(cause error) StoreError {
	if cause == nil {
		return StoreError{Detail: "unknown store failure"}
	}
	return StoreError{Detail: cause.Error()}
}

// InvariantViolationError backs the InvariantViolation{detail} error kind: an
// impossible state was reached. Callers treat this as fatal to the operation
// and the process should be considered unhealthy until recalculate_all runs.
type InvariantViolationError struct {
	Detail string `json:"detail"`
}

func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}

func (e InvariantViolationError) Code() string { return "INVARIANT_VIOLATION" }

func (e InvariantViolationError) Details() map[string]any {
	return map[string]any{"detail": e.Detail}
}

// NewInvariantViolationError creates a new invariant-violation error.
func NewInvariantViolationError(detail string) InvariantViolationError {
	return InvariantViolationError{Detail: detail}
}

var (
	_ DomainError = ValidationError{}
	_ DomainError = BusinessRuleError{}
	_ DomainError = NotFoundError{}
	_ DomainError = UnitIncompatibleError{}
	_ DomainError = CircularReferenceError{}
	_ DomainError = StoreError{}
	_ DomainError = InvariantViolationError{}
)
