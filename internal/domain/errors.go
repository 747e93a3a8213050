package domain

import "fmt"

// ValidationError rejects input before any store mutation. Location names
// the offending request field.
type ValidationError struct {
	Message  string
	Location string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

func NewValidationError(location, message string) *ValidationError {
	return &ValidationError{Message: message, Location: location}
}

// CredentialsError is returned by login when either the username or the
// password check fails. Location is "username" or "password".
type CredentialsError struct {
	Location string
}

func (e *CredentialsError) Error() string {
	return "invalid credentials (" + e.Location + ")"
}
