package transport

import (
	"context"
	"fmt"

	"github.com/pion/logging"
)

// Manager dials a camera over whichever transport kind discovery resolved
// to, presenting a uniform Conn regardless of which one was used
// (spec.md Section 5: "Framing is transport-agnostic above this layer").
type Manager struct {
	LoggerFactory logging.LoggerFactory
}

// NewManager creates a transport Manager.
func NewManager(loggerFactory logging.LoggerFactory) *Manager {
	return &Manager{LoggerFactory: loggerFactory}
}

// Dial connects to addr using the given transport kind. For KindBcUDP,
// connectionID must already be agreed with the peer (spec.md Section 4.4).
func (m *Manager) Dial(ctx context.Context, kind Kind, addr string, connectionID uint32) (Conn, error) {
	switch kind {
	case KindTCP:
		return DialTCP(ctx, addr, m.LoggerFactory)
	case KindBcUDP:
		return DialBcUDP(ctx, addr, connectionID, m.LoggerFactory)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
}
