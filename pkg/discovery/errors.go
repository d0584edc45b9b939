package discovery

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a closed Manager.
	ErrClosed = errors.New("discovery: closed")

	// ErrTimeout is returned when a strategy's timeout elapses with no result.
	ErrTimeout = errors.New("discovery: timed out")

	// ErrNoStrategiesConfigured is returned when a Manager has an empty order.
	ErrNoStrategiesConfigured = errors.New("discovery: no strategies configured")

	// ErrAllStrategiesFailed wraps the last strategy's error when every
	// configured strategy has been tried without success.
	ErrAllStrategiesFailed = errors.New("discovery: all strategies failed")

	// ErrMalformedResponse is returned when a camera's discovery reply
	// doesn't parse as the expected XML shape.
	ErrMalformedResponse = errors.New("discovery: malformed response")

	// ErrRegistrarUnreachable is returned when the Remote/Map/Relay
	// strategies can't reach the vendor registrar.
	ErrRegistrarUnreachable = errors.New("discovery: registrar unreachable")
)
