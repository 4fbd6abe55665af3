package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the failure kinds every handler maps to a response.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("possible duplicate")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrPermission      = errors.New("you do not have permission to perform this action")
)

// ValidationError reports per-field input failures. A request carrying one
// is rejected before any write happens.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FieldError builds a single-field validation error.
func FieldError(field, message string) *ValidationError {
	return NewValidationError().Add(field, message)
}

// Status maps an error to the HTTP status code of its kind. Anything not in
// the taxonomy is a server error.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the JSON-serializable response body for an error.
// Validation errors render per-field, everything else as a detail message.
func Body(err error) any {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	if Status(err) == http.StatusInternalServerError {
		return map[string]string{"detail": "internal server error"}
	}
	return map[string]string{"detail": err.Error()}
}
