// Package discovery resolves a camera UID to a reachable address and
// transport kind, trying strategies in a configurable order until one
// succeeds (spec.md Section 4.4).
package discovery

import "time"

// Strategy identifies one of the four ways a camera can be located.
type Strategy int

const (
	// StrategyLocal broadcasts a Discovery datagram on the local subnet
	// and waits for the camera to answer directly (spec.md Section 4.4, "Local").
	StrategyLocal Strategy = iota
	// StrategyRemote asks the vendor registrar for the camera's last-known
	// public address (spec.md Section 4.4, "Remote").
	StrategyRemote
	// StrategyMap registers this client's reachable address with the
	// registrar and waits for the camera to connect back
	// (spec.md Section 4.4, "Map").
	StrategyMap
	// StrategyRelay tunnels the whole session through the registrar when
	// neither side can reach the other directly (spec.md Section 4.4, "Relay").
	StrategyRelay
)

// String returns the human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyLocal:
		return "Local"
	case StrategyRemote:
		return "Remote"
	case StrategyMap:
		return "Map"
	case StrategyRelay:
		return "Relay"
	default:
		return "Unknown"
	}
}

// DefaultOrder is the strategy order used when a CameraConfig doesn't
// override it (SPEC_FULL.md Section 4, Open Question decision: cheapest
// and most private options first).
var DefaultOrder = []Strategy{StrategyLocal, StrategyRemote, StrategyMap, StrategyRelay}

// Default timeouts for each discovery phase.
const (
	DefaultBroadcastTimeout = 3 * time.Second
	DefaultRegistrarTimeout = 5 * time.Second
	DefaultMapTimeout       = 15 * time.Second
)
