package bcudp

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func mustListen(t *testing.T) net.PacketConn {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	return conn
}

func TestConnectionRoundTrip(t *testing.T) {
	aConn := mustListen(t)
	bConn := mustListen(t)
	defer aConn.Close()
	defer bConn.Close()

	a, err := NewConnection(ConnectionConfig{
		Conn:               aConn,
		PeerAddr:           bConn.LocalAddr(),
		ConnectionID:       1,
		RetransmitInterval: 50 * time.Millisecond,
		AckInterval:        10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewConnection a: %v", err)
	}
	b, err := NewConnection(ConnectionConfig{
		Conn:               bConn,
		PeerAddr:           aConn.LocalAddr(),
		ConnectionID:       1,
		RetransmitInterval: 50 * time.Millisecond,
		AckInterval:        10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewConnection b: %v", err)
	}

	if err := a.Start(); err != nil {
		t.Fatalf("a.Start: %v", err)
	}
	if err := b.Start(); err != nil {
		t.Fatalf("b.Start: %v", err)
	}
	defer a.Stop()
	defer b.Stop()

	payload := []byte("<Login><userName>admin</userName></Login>")
	if err := a.Write(payload); err != nil {
		t.Fatalf("a.Write: %v", err)
	}

	select {
	case got := <-b.Stream():
		if !bytes.Equal(got, payload) {
			t.Fatalf("got %q, want %q", got, payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reassembled payload")
	}

	// Give the ack loop time to run and clear a's send window.
	time.Sleep(100 * time.Millisecond)
	if got := a.sendWindow.Pending(); got != 0 {
		t.Fatalf("expected send window drained after ack, got %d pending", got)
	}
}

func TestConnectionChunksLargePayload(t *testing.T) {
	aConn := mustListen(t)
	bConn := mustListen(t)
	defer aConn.Close()
	defer bConn.Close()

	a, _ := NewConnection(ConnectionConfig{
		Conn: aConn, PeerAddr: bConn.LocalAddr(), ConnectionID: 2, MTU: 16,
		RetransmitInterval: 50 * time.Millisecond, AckInterval: 10 * time.Millisecond,
	})
	b, _ := NewConnection(ConnectionConfig{
		Conn: bConn, PeerAddr: aConn.LocalAddr(), ConnectionID: 2, MTU: 16,
		RetransmitInterval: 50 * time.Millisecond, AckInterval: 10 * time.Millisecond,
	})
	a.Start()
	b.Start()
	defer a.Stop()
	defer b.Stop()

	payload := bytes.Repeat([]byte("0123456789abcdef"), 5) // 80 bytes, 5 chunks at MTU 16
	a.Write(payload)

	var got []byte
	timeout := time.After(2 * time.Second)
	for len(got) < len(payload) {
		select {
		case chunk := <-b.Stream():
			got = append(got, chunk...)
		case <-timeout:
			t.Fatalf("timed out, got %d of %d bytes", len(got), len(payload))
		}
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("reassembled payload mismatch")
	}
}
