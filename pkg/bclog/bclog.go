// Package bclog re-exports the leveled logging types used throughout
// this module so callers configuring a Session, Router, or discovery
// Manager don't need to import pion/logging directly.
package bclog

import "github.com/pion/logging"

// Factory creates per-component leveled loggers, matching the
// LoggerFactory field every long-lived component here accepts.
type Factory = logging.LoggerFactory

// Logger is the leveled logger interface loggers satisfy.
type Logger = logging.LeveledLogger

// LogLevel mirrors pion/logging's level scale.
type LogLevel = logging.LogLevel

const (
	LogLevelDisabled = logging.LogLevelDisabled
	LogLevelError    = logging.LogLevelError
	LogLevelWarn     = logging.LogLevelWarn
	LogLevelInfo     = logging.LogLevelInfo
	LogLevelDebug    = logging.LogLevelDebug
	LogLevelTrace    = logging.LogLevelTrace
)

// NewFactory returns a factory that writes to stderr at the given
// level, scoped per component (e.g. "session", "router", "discovery").
func NewFactory(level LogLevel) Factory {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = level
	return f
}

// Noop returns a factory whose loggers discard everything, for tests
// and callers that don't want logging wired up.
func Noop() Factory {
	return NewFactory(LogLevelDisabled)
}
