package discovery

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/bcudp"
	"github.com/bcbridge/bc/pkg/transport"
)

// legacyBroadcastMarker is the fixed binary payload emitted to UDP/2000
// alongside the XML broadcast to UDP/2015 (spec.md Section 4.3 step 1).
var legacyBroadcastMarker = []byte{0x00, 0x00, 0xAA, 0xAA}

// LocalStrategy discovers a camera via local-subnet broadcast
// (spec.md Section 4.4, "Local"). It succeeds only when the camera shares
// an L2 broadcast domain with this host.
type LocalStrategy struct {
	log     logging.LeveledLogger
	Timeout time.Duration
}

// NewLocalStrategy creates a LocalStrategy with the given timeout, or
// DefaultBroadcastTimeout if zero.
func NewLocalStrategy(timeout time.Duration, loggerFactory logging.LoggerFactory) *LocalStrategy {
	if timeout <= 0 {
		timeout = DefaultBroadcastTimeout
	}
	s := &LocalStrategy{Timeout: timeout}
	if loggerFactory != nil {
		s.log = loggerFactory.NewLogger("discovery-local")
	}
	return s
}

// Resolve broadcasts C2D_C for uid and performs the C2D_T/D2C_T handshake
// with whichever camera answers first.
func (s *LocalStrategy) Resolve(ctx context.Context, uid string) (*Resolved, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("discovery: local listen: %w", err)
	}
	defer conn.Close()

	localPort := conn.LocalAddr().(*net.UDPAddr).Port
	transmissionID := uint32(localPort) // arbitrary but stable per-attempt salt

	connID := 1
	payload, err := BuildC2DC(uid, localPort, connID, bcudp.DefaultMTU, "00:00:00:00:00:00")
	if err != nil {
		return nil, err
	}
	wire := bcudp.BuildDiscoveryPayload(payload, transmissionID)

	broadcastAddr := &net.UDPAddr{IP: net.IPv4bcast, Port: bcudp.PortBroadcastXML}
	legacyAddr := &net.UDPAddr{IP: net.IPv4bcast, Port: bcudp.PortBroadcastLegacy}
	sendC2DC := func() error {
		if _, err := conn.WriteTo(wire, broadcastAddr); err != nil {
			return fmt.Errorf("discovery: broadcast: %w", err)
		}
		conn.WriteTo(legacyBroadcastMarker, legacyAddr)
		return nil
	}
	if err := sendC2DC(); err != nil {
		return nil, err
	}

	buf := make([]byte, 2048)
	lastSend := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil, ErrTimeout
		default:
		}

		// spec.md Section 4.3: discovery datagrams are retransmitted every
		// 500ms until a matching response arrives.
		if time.Since(lastSend) >= bcudp.DiscoveryRetransmitInterval {
			if err := sendC2DC(); err != nil {
				return nil, err
			}
			lastSend = time.Now()
		}

		conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			continue
		}

		xml, err := bcudp.ParseDiscoveryPayload(buf[:n])
		if err != nil {
			if s.log != nil {
				s.log.Debugf("discovery-local: ignoring malformed datagram from %v: %v", peer, err)
			}
			continue
		}

		reply, err := ParseD2CCR(xml)
		if err != nil {
			continue
		}

		return s.completeHandshake(ctx, conn, peer, reply, connID, uid)
	}
}

func (s *LocalStrategy) completeHandshake(ctx context.Context, conn net.PacketConn, peer net.Addr, reply D2CCR, connID int, uid string) (*Resolved, error) {
	sid := int(binary.LittleEndian.Uint16([]byte{byte(connID), byte(connID >> 8)}))
	confirm, err := BuildC2DT(sid, "local", reply.Body.CID, bcudp.DefaultMTU)
	if err != nil {
		return nil, err
	}
	wire := bcudp.BuildDiscoveryPayload(confirm, uint32(sid))
	sendC2DT := func() error {
		_, err := conn.WriteTo(wire, peer)
		return err
	}
	if err := sendC2DT(); err != nil {
		return nil, err
	}

	buf := make([]byte, 2048)
	lastSend := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil, ErrTimeout
		default:
		}

		// spec.md Section 4.3: the C2D_T confirm is retransmitted every
		// 500ms until D2C_T arrives, same as the initial broadcast.
		if time.Since(lastSend) >= bcudp.DiscoveryRetransmitInterval {
			if err := sendC2DT(); err != nil {
				return nil, err
			}
			lastSend = time.Now()
		}

		conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			continue
		}
		xml, err := bcudp.ParseDiscoveryPayload(buf[:n])
		if err != nil {
			continue
		}
		if _, err := ParseD2CT(xml); err == nil {
			return &Resolved{
				UID:          uid,
				Kind:         transport.KindBcUDP,
				Addr:         peer.String(),
				ConnectionID: uint32(reply.Body.CID),
				Via:          StrategyLocal,
			}, nil
		}
		// A D2C_CFM may arrive first; keep reading for D2C_T.
	}
}
