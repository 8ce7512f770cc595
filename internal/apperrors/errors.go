// Package apperrors defines the error codes shared by the repositories,
// the token signer and the HTTP handlers.
package apperrors

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
	"github.com/samber/oops"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeAuth       = "AUTH_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeDatabase   = "DATABASE_ERROR"
)

// uniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const uniqueViolation = "23505"

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

func Validation(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}

func Auth(format string, args ...any) error {
	return oops.Code(CodeAuth).Errorf(format, args...)
}

func NotFound(resource string) error {
	return oops.Code(CodeNotFound).With("resource", resource).Wrap(ErrNotFound)
}

// Database wraps a driver error. Unique constraint violations are tagged
// CONFLICT so callers can tell them apart from other failures.
func Database(err error, operation string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return oops.Code(CodeConflict).
			With("operation", operation).
			With("constraint", pqErr.Constraint).
			Wrap(err)
	}
	return oops.Code(CodeDatabase).With("operation", operation).Wrap(err)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}

// Status maps an error to the HTTP status the handlers answer with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, CodeValidation), Is(err, CodeConflict):
		return http.StatusBadRequest
	case Is(err, CodeAuth):
		return http.StatusUnauthorized
	case Is(err, CodeNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
