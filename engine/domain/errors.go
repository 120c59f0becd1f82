package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	ErrMissingTitle   = errors.New("missing title")
	ErrMissingPrice   = errors.New("missing price")
	ErrNegativePrice  = errors.New("negative price")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrUnknownMode    = errors.New("unknown display mode")
	ErrColumnNotValid = errors.New("column not valid for chart")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
