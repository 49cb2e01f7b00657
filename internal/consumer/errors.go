package consumer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the consumer loop.
var (
	// ErrNilBridge is returned by Run when the loop has no bridge.
	ErrNilBridge = errors.New("bridge cannot be nil")

	// ErrNilProcess is returned by Run when the loop has no processing func.
	ErrNilProcess = errors.New("process func cannot be nil")
)

// ProcessError wraps a failure from the consumer-side processing function.
type ProcessError struct {
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("process item: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}
