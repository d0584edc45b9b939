package transport

import (
	"bytes"
	"context"
	"net"
	"sync"

	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/bcudp"
)

// BcUDP adapts a bcudp.Connection to the Conn interface, presenting its
// reassembled fragment stream as an ordinary io.Reader
// (spec.md Section 4.3: "output is an ordered byte stream, indistinguishable
// from TCP above this layer").
type BcUDP struct {
	conn       net.PacketConn
	peerAddr   net.Addr
	underlying *bcudp.Connection

	mu  sync.Mutex
	buf bytes.Buffer
}

// DialBcUDP opens a UDP socket to addr and starts the BcUDP reliability
// layer over it with the given connection id, assigned earlier by the
// discovery handshake (spec.md Section 4.4).
func DialBcUDP(ctx context.Context, addr string, connectionID uint32, loggerFactory logging.LoggerFactory) (*BcUDP, error) {
	peerAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, err
	}

	underlying, err := bcudp.NewConnection(bcudp.ConnectionConfig{
		Conn:          conn,
		PeerAddr:      peerAddr,
		ConnectionID:  connectionID,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := underlying.Start(); err != nil {
		conn.Close()
		return nil, err
	}

	b := &BcUDP{conn: conn, peerAddr: peerAddr, underlying: underlying}
	return b, nil
}

// NewBcUDPFromConn wraps an already-bound socket and known peer address,
// used when the peer address was learned out of band -- e.g. a Map
// discovery strategy that already completed its reverse-connect handshake
// (spec.md Section 4.4, "Map") -- and by tests.
func NewBcUDPFromConn(conn net.PacketConn, peerAddr net.Addr, connectionID uint32, loggerFactory logging.LoggerFactory) (*BcUDP, error) {
	underlying, err := bcudp.NewConnection(bcudp.ConnectionConfig{
		Conn:          conn,
		PeerAddr:      peerAddr,
		ConnectionID:  connectionID,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		return nil, err
	}
	if err := underlying.Start(); err != nil {
		return nil, err
	}
	return &BcUDP{conn: conn, peerAddr: peerAddr, underlying: underlying}, nil
}

// Read drains the reassembled byte stream, blocking until at least one
// byte is available.
func (b *BcUDP) Read(p []byte) (int, error) {
	b.mu.Lock()
	if b.buf.Len() > 0 {
		n, _ := b.buf.Read(p)
		b.mu.Unlock()
		return n, nil
	}
	b.mu.Unlock()

	chunk, ok := <-b.underlying.Stream()
	if !ok {
		return 0, bcudp.ErrSessionEnded
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	n := copy(p, chunk)
	if n < len(chunk) {
		b.buf.Write(chunk[n:])
	}
	return n, nil
}

// Write chunks and sends p over the BcUDP reliability layer.
func (b *BcUDP) Write(p []byte) (int, error) {
	if err := b.underlying.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close tears down the reliability layer and the underlying socket.
func (b *BcUDP) Close() error {
	b.underlying.Stop()
	return b.conn.Close()
}

// RemoteAddr returns the camera's address.
func (b *BcUDP) RemoteAddr() net.Addr {
	return b.peerAddr
}

// Kind reports KindBcUDP.
func (b *BcUDP) Kind() Kind {
	return KindBcUDP
}

var _ Conn = (*BcUDP)(nil)
