package claim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on an optimistic-concurrency version mismatch.
	// The caller should re-read current state and retry.
	ErrConflict = errors.New("version conflict")
)

// FieldViolation describes a single invalid field in a request.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated field of an operation. Validation
// never fails fast: the caller receives the complete correction list.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
	return e
}

// HasViolations returns true if at least one field was rejected.
func (e *ValidationError) HasViolations() bool { return len(e.Violations) > 0 }

// InvalidTransitionError reports a status state-machine violation.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("invalid transition: %s %s is not allowed from status %s", e.Entity, e.Action, e.From)
	}
	return fmt.Sprintf("invalid transition: %s %s from %s to %s", e.Entity, e.Action, e.From, e.To)
}

// AmountMismatchError reports a ledger invariant violation.
type AmountMismatchError struct {
	Field    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch on %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// ImmutableStateError reports a mutation attempted on a terminal or locked record.
type ImmutableStateError struct {
	Entity string
	ID     int64
	Status string
}

func (e *ImmutableStateError) Error() string {
	return fmt.Sprintf("%s %d is immutable in status %s", e.Entity, e.ID, e.Status)
}

// HasDependentsError reports a delete blocked by referential integrity.
type HasDependentsError struct {
	Entity        string
	ID            int64
	Reviews       int64
	Confirmations int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s %d has dependents (%d reviews, %d confirmations)", e.Entity, e.ID, e.Reviews, e.Confirmations)
}
