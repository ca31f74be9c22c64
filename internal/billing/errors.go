package billing

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every error that rejects the bill as a whole.
var ErrValidation = errors.New("validation failed")

// ValidationError is a structural failure that aborts the bill. Message is
// meant to be shown to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// CellParseError reports a cell that holds text which is not a number.
type CellParseError struct {
	Value string
	Err   error
}

func (e *CellParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a number", e.Value)
}

func (e *CellParseError) Unwrap() error { return e.Err }
