package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying domain failures. Callers match with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

// DomainError wraps a sentinel with a human-readable message.
type DomainError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel for errors.Is matching.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure with a caller-facing message.
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{Err: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not-found failure for an entity and identifier.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// NewConflictError creates a conflict failure for a lost concurrent race.
func NewConflictError(message string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: message}
}

// NewStorageError wraps an underlying persistence failure.
func NewStorageError(cause error) *DomainError {
	return &DomainError{Err: ErrStorage, Message: fmt.Sprintf("storage failure: %v", cause)}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
