package bcproto

import (
	"bytes"
	"testing"
)

func TestXORRoundTrip(t *testing.T) {
	plain := []byte("<?xml")
	cipher := XOR(plain, 0x0B)
	if bytes.Equal(cipher, plain) {
		t.Fatalf("ciphertext equals plaintext, expected transformation")
	}
	again := XOR(cipher, 0x0B)
	if !bytes.Equal(again, plain) {
		t.Fatalf("xor(xor(p,o),o) = %q, want %q", again, plain)
	}
}

func TestXORRoundTripArbitraryOffsets(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog 0123456789")
	for _, offset := range []uint32{0, 1, 7, 8, 255, 256, 1 << 20} {
		cipher := XOR(src, offset)
		back := XOR(cipher, offset)
		if !bytes.Equal(back, src) {
			t.Fatalf("offset %d: round-trip failed", offset)
		}
	}
}

func TestXOREmptyInput(t *testing.T) {
	if out := XOR(nil, 5); len(out) != 0 {
		t.Fatalf("expected empty output for empty input, got %v", out)
	}
}
