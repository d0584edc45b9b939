package transport

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"
)

func TestTCPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	serverDone := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		n, _ := conn.Read(buf)
		serverDone <- buf[:n]
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c, err := DialTCP(ctx, ln.Addr().String(), nil)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer c.Close()

	if c.Kind() != KindTCP {
		t.Fatalf("got kind %v, want KindTCP", c.Kind())
	}

	if _, err := c.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case got := <-serverDone:
		if !bytes.Equal(got, []byte("hello")) {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server to receive data")
	}
}
