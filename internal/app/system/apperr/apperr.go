// Package apperr defines the application's error taxonomy.
//
// Every operation boundary converts raw store/provider failures into one of
// these kinds with a user-safe message; the raw error text is logged
// server-side and never returned to the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping.
type Kind int

const (
	// NotAuthenticated means no valid session was presented.
	NotAuthenticated Kind = iota
	// Forbidden means the caller is authenticated but the role is insufficient.
	Forbidden
	// NotFound means the lookup target is absent.
	NotFound
	// Conflict means the operation clashes with existing state
	// (code already issued/expired, identity linked elsewhere, ...).
	Conflict
	// Validation means the payload is empty or malformed.
	Validation
	// RateLimited means the caller exceeded an abuse threshold.
	RateLimited
	// Upstream means a provider/store/API call failed or timed out.
	Upstream
	// Configuration means a required secret or setting is missing. Fatal for
	// the affected feature only, never for the whole process.
	Configuration
)

// Error carries a kind, a user-safe message, and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string // safe to return to the client
	Err     error  // logged, never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, defaulting to Upstream for untyped
// failures so raw provider errors never map to a client-fault status.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Upstream
}

// SafeMessage returns the user-safe message for err, or a generic fallback
// for untyped failures.
func SafeMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An internal error occurred."
}

// HTTPStatus maps a Kind to its transport status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotAuthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	case RateLimited:
		return http.StatusTooManyRequests
	case Configuration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
