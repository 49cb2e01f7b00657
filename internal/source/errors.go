package source

import "errors"

// Sentinel errors for source adapters.
var (
	// ErrInvalidInterval is returned when a ticker interval is not positive.
	ErrInvalidInterval = errors.New("ticker interval must be positive")

	// ErrNilScreen is returned when a terminal source has no screen.
	ErrNilScreen = errors.New("terminal screen cannot be nil")

	// ErrEmptyPath is returned when a watcher source has no path to watch.
	ErrEmptyPath = errors.New("watch path cannot be empty")

	// ErrEmptyURL is returned when a socket source has no endpoint URL.
	ErrEmptyURL = errors.New("socket url cannot be empty")
)
