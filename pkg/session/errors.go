package session

import "errors"

var (
	// ErrAlreadyStarted is returned by Login when called more than once.
	ErrAlreadyStarted = errors.New("session: login already in progress or complete")
	// ErrClosed is returned by Send/Login once the session has been closed.
	ErrClosed = errors.New("session: closed")
	// ErrLoginTimeout is returned when a login step exceeds its deadline.
	ErrLoginTimeout = errors.New("session: login timed out")
	// ErrLoginRejected is returned when the camera answers a login step with
	// a non-OK status word (spec.md Section 4.6).
	ErrLoginRejected = errors.New("session: camera rejected login")
	// ErrUnexpectedFrame is returned when a frame doesn't match the class or
	// message id the current handshake step expects.
	ErrUnexpectedFrame = errors.New("session: unexpected frame for current state")
	// ErrHandleTableExhausted reports that all 254 handles are in use.
	// NextHandle keeps no record of handles in use and never returns it.
	ErrHandleTableExhausted = errors.New("session: no free message handles")
	// ErrHeartbeatLost names the condition of hbt milliseconds passing with
	// no inbound traffic after Ready (spec.md Section 4.6). heartbeatLoop
	// logs that condition and closes the session; no Session method
	// returns this error.
	ErrHeartbeatLost = errors.New("session: heartbeat lost")
	// ErrNotReady is returned by Send before the state machine reaches
	// Ready.
	ErrNotReady = errors.New("session: not ready")
)
