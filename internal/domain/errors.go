package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// ValidationError reports user input that breaks a business rule. Field is the
// form field the message belongs to; it is empty for form-wide problems.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// CoercionError reports text that could not be read as a number. The edit
// that produced it is rejected and the previous value kept.
type CoercionError struct {
	Field string
	Input string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid number", e.Field, e.Input)
}
