package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for auth and distinguished failure modes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrFetchTimeout marks an image fetch that exceeded its deadline,
	// as opposed to a generic fetch failure.
	ErrFetchTimeout = errors.New("image fetch timed out")

	// ErrStoreFull marks a record store write that failed because the
	// underlying storage is out of space.
	ErrStoreFull = errors.New("record store is full")
)

// ValidationError reports malformed caller input, caught before any
// network call is made. Maps to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent catalog entity. Maps to HTTP 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ExternalServiceError reports a failure from the screenshot provider,
// a vision model, or the hosted database. Maps to HTTP 502.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s request failed", e.Service)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports missing required credentials, checked lazily
// at first use rather than at startup. Maps to HTTP 500.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}
