package movie

import "fmt"

// Year bounds accepted before submission, matching the backend.
const (
	MinYear = 1
	MaxYear = 2100
)

// ValidationError reports a field rejected before submission.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the fields against the backend's constraints. It is
// called by Create and Update before any network traffic.
func (f Fields) Validate() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if f.Year < MinYear || f.Year > MaxYear {
		return &ValidationError{Field: "year", Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	}
	if f.Director == "" {
		return &ValidationError{Field: "director", Message: "is required"}
	}
	if f.Genre == "" {
		return &ValidationError{Field: "genre", Message: "is required"}
	}
	return nil
}
