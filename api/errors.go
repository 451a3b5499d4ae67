package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common errors returned by the API client.
var (
	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid API client configuration")
	// ErrUnauthorized indicates a missing or rejected credential.
	ErrUnauthorized = errors.New("unauthorized: missing or invalid credential")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// APIError represents a non-2xx response from the backend, carrying
// the decoded error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string][]string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("API error: status %d: %s (%s)", e.StatusCode, e.Message, e.fieldSummary())
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication or
// ownership failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsValidation checks if the error carries field-level validation
// messages from the backend.
func (e *APIError) IsValidation() bool {
	return len(e.Details) > 0
}

// fieldSummary renders the field errors in a stable order for display.
func (e *APIError) fieldSummary() string {
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Details[field], "; ")))
	}
	return strings.Join(parts, ", ")
}
