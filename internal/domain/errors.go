package domain

import (
	"errors"
	"fmt"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation: bad or negative numeric input. Raised before any side effect.
	ErrValidation = errors.New("validation failed")
	// ErrStorage: the counter storage could not be read or written.
	ErrStorage = errors.New("sequence storage unavailable")
	// ErrCorruptState: the counter storage holds content that is not a valid counter.
	ErrCorruptState = errors.New("sequence storage holds corrupt state")
	// ErrRender: the document could not be laid out or drawn.
	ErrRender = errors.New("document render failed")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field   string
	Details string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Details: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Details)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Details)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
