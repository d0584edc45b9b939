package transport

import (
	"io"
	"net"
)

// Conn is a byte-stream connection to one camera, regardless of whether it
// is backed by a raw TCP socket or a BcUDP reliability session. Both
// produce the same kind of ordered byte stream that pkg/bcframe decodes
// (spec.md Section 5: "Framing is transport-agnostic above this layer").
type Conn interface {
	io.Reader
	io.Writer
	io.Closer

	// RemoteAddr identifies the peer this connection talks to.
	RemoteAddr() net.Addr

	// Kind reports which wire transport backs this connection.
	Kind() Kind
}
