// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrCatalogUnavailable indicates the course catalog could not be loaded.
	// The bot keeps running with an empty catalog when this happens.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")

	// ErrBackendUnavailable indicates the generative backend failed to answer.
	ErrBackendUnavailable = errors.New("generative backend unavailable")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout reports whether err wraps ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// SendError represents a failure delivering an outbound message
// through the messaging transport.
type SendError struct {
	Conversation string
	StatusCode   int
	Err          error
}

func (e *SendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("send error (conversation=%s, status=%d): %v", e.Conversation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("send error (conversation=%s): %v", e.Conversation, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// NewSendError creates a new send error.
func NewSendError(conversation string, statusCode int, err error) *SendError {
	return &SendError{
		Conversation: conversation,
		StatusCode:   statusCode,
		Err:          err,
	}
}
