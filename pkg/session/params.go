package session

import (
	"time"

	"github.com/bcbridge/bc/pkg/bcproto"
)

// Default timing and negotiation values (spec.md Section 4.6).
const (
	// DefaultLoginTimeout bounds each individual handshake round trip
	// (legacy login, nonce wait, modern login, device-info wait).
	DefaultLoginTimeout = 5 * time.Second

	// DefaultEncryptionCeiling is the highest encryption level this
	// client proposes when it has no stronger preference. AES-server is
	// the common default across BC clients observed in the wild.
	DefaultEncryptionCeiling = bcproto.EncryptionAESServer

	// handleReserved (0) is never allocated to an outbound request; it is
	// reserved for server-originated push events (spec.md Section 4.6).
	handleReserved uint8 = 0
	// handleModulus bounds the wraparound: handles cycle through 1..254.
	handleModulus = 255
)

// Credentials identifies the client to the camera (spec.md Section 4.6).
type Credentials struct {
	Username string
	Password string
}

// HeartbeatTimers controls the keep-alive cadence; it mirrors the hb/hbt
// pair of discovery's D2C_C_R timer block (spec.md Section 4.3/4.6).
// Zero values are not replaced: a zero IntervalMillis starts no heartbeat
// loop at all, and a zero TimeoutMillis disables the loss check.
type HeartbeatTimers struct {
	// IntervalMillis is how often to send message-id 234.
	IntervalMillis int
	// TimeoutMillis is how long without inbound traffic before
	// ErrHeartbeatLost fires.
	TimeoutMillis int
}

func (h HeartbeatTimers) interval() time.Duration {
	if h.IntervalMillis <= 0 {
		return 0
	}
	return time.Duration(h.IntervalMillis) * time.Millisecond
}

func (h HeartbeatTimers) timeout() time.Duration {
	if h.TimeoutMillis <= 0 {
		return 0
	}
	return time.Duration(h.TimeoutMillis) * time.Millisecond
}
