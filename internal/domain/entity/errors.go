package entity

import (
	"errors"
	"fmt"
)

// Lifecycle error taxonomy. Callers match with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("actor is not allowed to perform this action")
	ErrSlotUnavailable     = errors.New("slot is no longer available")
	ErrInvalidTransition   = errors.New("operation is not allowed in the current appointment state")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrAlreadyRated        = errors.New("appointment has already been rated")
	ErrNotEligible         = errors.New("appointment is not eligible for rating")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrContractorNotFound  = errors.New("contractor not found")
	ErrContractorExists    = errors.New("contractor profile already exists")

	// ErrConcurrentUpdate is returned when an optimistic write lost a race.
	// It is an invalid transition from the caller's point of view.
	ErrConcurrentUpdate = fmt.Errorf("%w: appointment was modified concurrently", ErrInvalidTransition)
)

// ValidationError describes malformed input. Its message is meant to be shown
// to the caller as is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
