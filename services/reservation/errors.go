package reservation

import (
	"fmt"

	"carental/models"
)

// ValidationError signals malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Resource, e.ID)
}

// InvalidStateError signals an operation that the reservation's current
// status does not permit.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// NewInvalidStateError builds an InvalidStateError from a format string.
func NewInvalidStateError(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals that the requested rental period collides with
// existing reservations. Conflicts carries the colliding bookings.
type ConflictError struct {
	Message   string
	Conflicts []models.ConflictSummary
}

func (e *ConflictError) Error() string {
	return e.Message
}
