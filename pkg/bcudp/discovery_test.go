package bcudp

import (
	"bytes"
	"testing"
)

func TestDiscoveryRoundTrip(t *testing.T) {
	xml := []byte(`<Extension><binPic>0</binPic></Extension>`)
	wire := BuildDiscoveryPayload(xml, 0x11223344)

	got, err := ParseDiscoveryPayload(wire)
	if err != nil {
		t.Fatalf("ParseDiscoveryPayload: %v", err)
	}
	if !bytes.Equal(got, xml) {
		t.Fatalf("got %q, want %q", got, xml)
	}
}

func TestDiscoveryRejectsBadCRC(t *testing.T) {
	xml := []byte("hello")
	wire := BuildDiscoveryPayload(xml, 1)
	wire[len(wire)-1] ^= 0xFF // corrupt last encrypted byte

	if _, err := ParseDiscoveryPayload(wire); err == nil {
		t.Fatal("expected CRC mismatch error")
	}
}

func TestDiscoveryXORSaltedByTransmissionID(t *testing.T) {
	xml := []byte("same bytes")
	a := EncryptDiscovery(xml, 7)
	// The keystream is salted by the transmission id, so the same
	// plaintext under two different ids must encrypt differently.
	b := EncryptDiscovery(xml, 8)
	if bytes.Equal(a, b) {
		t.Fatal("expected different transmission ids to produce different ciphertext")
	}
}
