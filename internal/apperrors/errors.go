package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced user or entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is the generic uniqueness violation, used when the storage
	// constraint fires without telling us which field collided.
	ErrDuplicate = errors.New("already exists")

	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicateEmail    = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so a caller cannot enumerate registered usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// FieldError ties a validation failure to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures caught at the boundary
// before any store call. The field list may name one field or several.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
