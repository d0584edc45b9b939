package discovery

import (
	"net"

	"github.com/bcbridge/bc/pkg/transport"
)

// Resolved describes a reachable camera: enough to dial a session.
type Resolved struct {
	// UID is the camera's registrar identifier (spec.md Section 4.4).
	UID string

	// Kind is the transport the caller should use to connect.
	Kind transport.Kind

	// Addr is the dial target, "host:port".
	Addr string

	// ConnectionID is the BcUDP connection id to use, when Kind is
	// KindBcUDP; meaningless for KindTCP.
	ConnectionID uint32

	// Via records which Strategy produced this result.
	Via Strategy

	// LocalAddr is set only by StrategyMap: the address this client
	// advertised to the registrar for the camera to connect back to.
	LocalAddr net.Addr
}
