package transport

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestBcUDPRoundTrip(t *testing.T) {
	aSock, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket a: %v", err)
	}
	defer aSock.Close()
	bSock, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket b: %v", err)
	}
	defer bSock.Close()

	a, err := NewBcUDPFromConn(aSock, bSock.LocalAddr(), 99, nil)
	if err != nil {
		t.Fatalf("NewBcUDPFromConn a: %v", err)
	}
	defer a.Close()
	b, err := NewBcUDPFromConn(bSock, aSock.LocalAddr(), 99, nil)
	if err != nil {
		t.Fatalf("NewBcUDPFromConn b: %v", err)
	}
	defer b.Close()

	if a.Kind() != KindBcUDP {
		t.Fatalf("got kind %v, want KindBcUDP", a.Kind())
	}

	payload := []byte("<Preview><channelId>0</channelId></Preview>")
	if _, err := a.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, len(payload))
	readDone := make(chan error, 1)
	go func() {
		_, err := b.Read(buf)
		readDone <- err
	}()

	select {
	case err := <-readDone:
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reassembled payload")
	}
	if !bytes.Equal(buf, payload) {
		t.Fatalf("got %q, want %q", buf, payload)
	}
}
