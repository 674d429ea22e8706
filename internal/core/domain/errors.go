package domain

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")
var ErrAuth = errors.New("authentication failed")
var ErrNotFound = errors.New("not found")
var ErrNetwork = errors.New("backend unreachable")
var ErrForbidden = errors.New("access forbidden")
var ErrFlowNotFound = errors.New("verification flow not found")
var ErrFlowBusy = errors.New("verification flow busy")
var ErrFlowDone = errors.New("verification flow already completed")

// FieldError is a validation failure tied to a single input field. It is
// resolved locally and rendered inline next to the field; it never reaches
// the backend.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap makes every FieldError match ErrValidation via errors.Is.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
