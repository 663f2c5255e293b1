package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when no state exists for a session id
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotAwaitingReview is returned when resuming a session that is not paused at review
	ErrNotAwaitingReview = errors.New("session is not awaiting review")
)

// ValidationError reports bad caller input. State is never touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "Invalid request: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DeliveryError reports a failed dispatch. The session is terminal regardless.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("Send failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
