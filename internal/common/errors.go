package common

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError marks malformed input: non-positive quantities, empty item
// lists, allocation plans exceeding requested or available amounts.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError marks a missing order, product, store or user.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// InvalidStateError marks an operation attempted against an order in the
// wrong state, e.g. fulfilling an order that already reached a terminal
// status. Callers must refresh state before retrying with corrected intent.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

func NewInvalidStateError(format string, args ...any) error {
	return &InvalidStateError{Reason: fmt.Sprintf(format, args...)}
}

func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

// InsufficientStockError is returned when central inventory cannot cover a
// requested decrement. It always aborts the enclosing transaction.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d", e.ProductID, e.Requested)
}

func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}

// LocationError marks a failed geofence precondition: the reported position
// is outside the allowed radius of the store's registered coordinates.
type LocationError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("location check failed: %.0fm from store, allowed radius %.0fm", e.DistanceMeters, e.RadiusMeters)
}

func IsLocation(err error) bool {
	var le *LocationError
	return errors.As(err, &le)
}
