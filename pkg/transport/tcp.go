package transport

import (
	"context"
	"net"
	"sync"

	"github.com/pion/logging"
)

// TCP is a single outbound TCP stream connection to one camera
// (spec.md Section 5: BC is point-to-point, never a listener per peer).
type TCP struct {
	conn net.Conn
	log  logging.LeveledLogger

	mu     sync.Mutex
	closed bool
}

// DialTCP connects to addr over TCP.
func DialTCP(ctx context.Context, addr string, loggerFactory logging.LoggerFactory) (*TCP, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	t := &TCP{conn: conn}
	if loggerFactory != nil {
		t.log = loggerFactory.NewLogger("transport-tcp")
	}
	return t, nil
}

// NewTCPFromConn wraps an already-established net.Conn, such as one
// accepted from a camera's reverse "Map" discovery connection
// (spec.md Section 4.4, "Map").
func NewTCPFromConn(conn net.Conn, loggerFactory logging.LoggerFactory) *TCP {
	t := &TCP{conn: conn}
	if loggerFactory != nil {
		t.log = loggerFactory.NewLogger("transport-tcp")
	}
	return t
}

// Read implements io.Reader.
func (t *TCP) Read(p []byte) (int, error) {
	return t.conn.Read(p)
}

// Write implements io.Writer.
func (t *TCP) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Close closes the underlying connection.
func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.log != nil {
		t.log.Info("closing TCP transport")
	}
	return t.conn.Close()
}

// RemoteAddr returns the camera's address.
func (t *TCP) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Kind reports KindTCP.
func (t *TCP) Kind() Kind {
	return KindTCP
}

var _ Conn = (*TCP)(nil)
