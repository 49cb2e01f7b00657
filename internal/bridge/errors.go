package bridge

import "errors"

// Sentinel errors for the bridge.
var (
	// ErrCompleted is returned by Next once the bridge has been completed and
	// every buffered item has been delivered. Consume translates it into
	// normal termination of the iteration.
	ErrCompleted = errors.New("bridge completed")

	// ErrConsumeActive is returned when a second Consume iteration starts
	// while another is still running. The bridge is single-consumer.
	ErrConsumeActive = errors.New("consume already active")

	// ErrNilSource is returned by Subscribe when the source is nil.
	ErrNilSource = errors.New("source cannot be nil")

	// ErrNilHandler is returned by SubscribeFunc when the handler is nil.
	ErrNilHandler = errors.New("handler cannot be nil")
)
