package transport

import (
	"bytes"
	"testing"
	"time"
)

func TestPipeRoundTrip(t *testing.T) {
	p := NewPipe()
	defer p.Close()

	msg := []byte("ping")
	if _, err := p.Conn0().Write(msg); err != nil {
		t.Fatalf("write: %v", err)
	}

	p.Conn1().SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, len(msg))
	n, err := p.Conn1().Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(buf[:n], msg) {
		t.Fatalf("got %q, want %q", buf[:n], msg)
	}
}

func TestPipePacketConnPairDelivery(t *testing.T) {
	a, b, p := NewPipePacketConnPair(2015)
	defer p.Close()

	if _, err := a.WriteTo([]byte("discover"), b.LocalAddr()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	b.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 16)
	n, addr, err := b.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !bytes.Equal(buf[:n], []byte("discover")) {
		t.Fatalf("got %q", buf[:n])
	}
	if addr.String() != a.LocalAddr().String() {
		t.Fatalf("got peer %v, want %v", addr, a.LocalAddr())
	}
}

func TestPipeDropCondition(t *testing.T) {
	a, b, p := NewPipePacketConnPair(2000)
	defer p.Close()
	p.SetCondition(NetworkCondition{DropRate: 1.0})

	a.WriteTo([]byte("dropped"), b.LocalAddr())

	b.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	buf := make([]byte, 16)
	if _, _, err := b.ReadFrom(buf); err == nil {
		t.Fatal("expected read timeout since packet should have been dropped")
	}
}
