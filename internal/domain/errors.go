package domain

import (
	"errors"
)

// Common domain errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// Domain registry errors
	ErrDomainNotFound      = errors.New("chat domain not found")
	ErrInvalidDomainPrefix = errors.New("invalid trusted domain prefix")

	// Download request errors
	ErrRequestNotFound        = errors.New("download request not found")
	ErrAlreadyResolved        = errors.New("download request already resolved")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNilView                = errors.New("view cannot be nil")
)

// SkippableError represents an error that can be logged and skipped.
// The navigation or download outcome is unaffected when this error occurs.
type SkippableError struct {
	Err     error
	Context string
}

// Error returns the error message
func (e *SkippableError) Error() string {
	if e.Context != "" {
		if e.Err != nil {
			return e.Context + ": " + e.Err.Error()
		}
		return e.Context
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "skippable error"
}

// Unwrap returns the underlying error
func (e *SkippableError) Unwrap() error {
	return e.Err
}

// NewSkippableError creates a new skippable error
func NewSkippableError(err error, context string) *SkippableError {
	return &SkippableError{Err: err, Context: context}
}

// IsSkippable returns true if the error can be skipped
func IsSkippable(err error) bool {
	var se *SkippableError
	return errors.As(err, &se)
}

// ErrSkipStaleSignal is returned for a download signal whose request was
// already resolved or never existed
var ErrSkipStaleSignal = NewSkippableError(ErrRequestNotFound, "stale download signal")
