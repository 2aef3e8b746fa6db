package domain

import "errors"

var (
	// ErrInvalidMessage is returned when a queued notification cannot be decoded
	ErrInvalidMessage = errors.New("invalid notification message")

	// ErrMessageExpired is returned when a notification waited longer than the configured max age
	ErrMessageExpired = errors.New("notification expired")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
