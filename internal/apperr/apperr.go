// Package apperr defines the error taxonomy shared by services, stores and
// the HTTP layer. Each error carries a Kind that maps to exactly one HTTP
// status; the Fiber error handler performs that mapping in one place.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	// Validation covers bad or missing input. No side effects occurred.
	Validation Kind = iota
	// Auth covers a missing, invalid or expired credential.
	Auth
	// Forbidden covers a valid credential with an insufficient role.
	Forbidden
	// NotFound covers a lookup for a record that does not exist.
	NotFound
	// Storage covers database and disk failures.
	Storage
	// Extraction covers external analysis failures. It is always caught by
	// the ingestion orchestrator and downgraded to a soft field, so it never
	// reaches the HTTP layer on its own.
	Extraction
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation:
		return fiber.StatusBadRequest
	case Auth:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) is an apperr.Error of the
// given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
