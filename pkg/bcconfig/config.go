// Package bcconfig holds the configuration surface for a single camera
// connection: identity, credentials, discovery preferences, and
// encryption/timing overrides, following the teacher's NodeConfig shape
// (validated struct, sensible defaults filled lazily, not at
// construction) generalized from a commissioned Matter node to a BC
// camera session.
package bcconfig

import (
	"errors"
	"time"

	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/bcproto"
	"github.com/bcbridge/bc/pkg/discovery"
	"github.com/bcbridge/bc/pkg/session"
)

// Validation errors.
var (
	ErrUIDRequired      = errors.New("bcconfig: UID is required")
	ErrUsernameRequired = errors.New("bcconfig: Username is required")
)

// DefaultTCPPort is the camera's control-channel TCP port
// (spec.md Section 6).
const DefaultTCPPort = 9000

// DefaultDiscoveryUDPPort is the UDP port the client broadcasts its
// discovery request to during local discovery; cameras reply on the port
// the client declares in that request (spec.md Section 4.3/6).
const DefaultDiscoveryUDPPort = 2015

// CameraConfig holds everything needed to locate, authenticate with,
// and maintain a session against one camera.
type CameraConfig struct {
	// Identity - Required
	UID string // camera's stable identifier, as printed on its label/app

	// Credentials - Required
	Username string
	Password string

	// Network - Optional overrides; empty/zero triggers discovery or a
	// spec default.
	Host string // skips discovery entirely when set
	Port int    // TCP control port; defaults to DefaultTCPPort

	// Discovery
	DiscoveryOrder []discovery.Strategy // defaults to discovery.DefaultOrder
	RegistrarURL   string               // required if DiscoveryOrder uses Remote/Map/Relay

	// Security
	EncryptionCeiling bcproto.EncryptionLevel // defaults to session.DefaultEncryptionCeiling

	// Timing
	LoginTimeout time.Duration    // defaults to session.DefaultLoginTimeout
	Heartbeat    session.HeartbeatTimers

	LoggerFactory logging.LoggerFactory
}

// Validate checks the configuration for the fields this package can
// verify outside of a live connection.
func (c *CameraConfig) Validate() error {
	if c.UID == "" && c.Host == "" {
		return ErrUIDRequired
	}
	if c.Username == "" {
		return ErrUsernameRequired
	}
	for _, s := range c.DiscoveryOrder {
		if (s == discovery.StrategyRemote || s == discovery.StrategyMap || s == discovery.StrategyRelay) && c.RegistrarURL == "" {
			return errors.New("bcconfig: DiscoveryOrder uses a registrar strategy but RegistrarURL is empty")
		}
	}
	return nil
}

// withDefaults returns a copy with zero-valued fields filled in with spec
// defaults. Called
// internally by the accessor methods below rather than mutating the
// caller's struct directly.
func (c CameraConfig) withDefaults() CameraConfig {
	if c.Port == 0 {
		c.Port = DefaultTCPPort
	}
	if len(c.DiscoveryOrder) == 0 {
		c.DiscoveryOrder = discovery.DefaultOrder
	}
	if c.EncryptionCeiling == 0 {
		c.EncryptionCeiling = session.DefaultEncryptionCeiling
	}
	if c.LoginTimeout == 0 {
		c.LoginTimeout = session.DefaultLoginTimeout
	}
	return c
}

// ManagerConfig builds a discovery.ManagerConfig from this camera's
// settings.
func (c CameraConfig) ManagerConfig() discovery.ManagerConfig {
	d := c.withDefaults()
	return discovery.ManagerConfig{
		Order:         d.DiscoveryOrder,
		RegistrarURL:  d.RegistrarURL,
		LoggerFactory: d.LoggerFactory,
	}
}

// Credentials returns the session.Credentials this camera logs in with.
func (c CameraConfig) Credentials() session.Credentials {
	return session.Credentials{Username: c.Username, Password: c.Password}
}

// SessionConfig builds a session.Config around conn with this camera's
// credentials, encryption ceiling, and timing, defaults applied.
func (c CameraConfig) SessionConfig(conn session.Conn) session.Config {
	d := c.withDefaults()
	return session.Config{
		Conn:              conn,
		Credentials:       d.Credentials(),
		EncryptionCeiling: d.EncryptionCeiling,
		LoginTimeout:      d.LoginTimeout,
		Heartbeat:         d.Heartbeat,
		LoggerFactory:     d.LoggerFactory,
	}
}
