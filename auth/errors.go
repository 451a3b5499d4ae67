package auth

import "errors"

// Common errors returned by the auth service.
var (
	// ErrNotAuthenticated indicates no session is present.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrInvalidResponse indicates the backend returned a success
	// envelope without the expected credential or profile.
	ErrInvalidResponse = errors.New("invalid response from auth endpoint")
)
