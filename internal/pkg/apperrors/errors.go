package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports missing or malformed input.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// AuthorizationError reports an actor that does not own the resource or
// holds the wrong role for the operation.
type AuthorizationError struct{ Msg string }

func (e *AuthorizationError) Error() string { return e.Msg }

// InvalidStateError reports an operation that is not valid for the
// resource's current status.
type InvalidStateError struct{ Msg string }

func (e *InvalidStateError) Error() string { return e.Msg }

// QuotaExceededError reports a tier-limit violation.
type QuotaExceededError struct{ Msg string }

func (e *QuotaExceededError) Error() string { return e.Msg }

// ConflictError reports a duplicate of an already-active resource.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports a missing resource.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

func QuotaExceeded(format string, args ...interface{}) error {
	return &QuotaExceededError{Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// StatusOf maps a taxonomy error to its HTTP status code. Anything outside
// the taxonomy (raw database errors included) maps to 500.
func StatusOf(err error) int {
	var (
		ve *ValidationError
		ae *AuthorizationError
		se *InvalidStateError
		qe *QuotaExceededError
		ce *ConflictError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &se), errors.As(err, &qe):
		return fiber.StatusBadRequest
	case errors.As(err, &ae):
		return fiber.StatusForbidden
	case errors.As(err, &ce):
		return fiber.StatusConflict
	case errors.As(err, &ne):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the caller-visible message for err. Errors outside
// the taxonomy collapse to a generic message so internal detail never leaks
// past the request boundary.
func PublicMessage(err error) string {
	if StatusOf(err) == fiber.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}
