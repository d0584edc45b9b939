package router

import "errors"

var (
	// ErrSessionEnded is returned to every outstanding awaiter when the
	// underlying session's Incoming channel closes (spec.md Section 4.7,
	// "session teardown fails all pending awaiters").
	ErrSessionEnded = errors.New("router: session ended")
	// ErrTimedOut is returned when a Request's context is cancelled
	// before a matching response arrives (spec.md Section 5, "Cancellation").
	ErrTimedOut = errors.New("router: request timed out")
	// ErrClosed is returned by Subscribe, StartPreview and Request once the
	// router has shut down, which happens when the session's Incoming
	// channel closes.
	ErrClosed = errors.New("router: closed")
)
