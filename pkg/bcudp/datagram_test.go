package bcudp

import "testing"

func TestDataHeaderRoundTrip(t *testing.T) {
	h := DataHeader{ConnectionID: 7, PacketID: 42, PayloadSize: 128}
	wire := EncodeDataHeader(h)
	if len(wire) != dataHeaderLen {
		t.Fatalf("got len %d, want %d", len(wire), dataHeaderLen)
	}
	got, err := DecodeDataHeader(wire)
	if err != nil {
		t.Fatalf("DecodeDataHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestDataHeaderBadMagic(t *testing.T) {
	wire := EncodeDataHeader(DataHeader{})
	wire[0] ^= 0xFF
	if _, err := DecodeDataHeader(wire); err != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestAckHeaderRoundTrip(t *testing.T) {
	h := AckHeader{ConnectionID: 3, LastReceived: 9, Unknown: 0, PayloadSize: 5}
	wire := EncodeAckHeader(h)
	if len(wire) != ackHeaderLen {
		t.Fatalf("got len %d, want %d", len(wire), ackHeaderLen)
	}
	got, err := DecodeAckHeader(wire)
	if err != nil {
		t.Fatalf("DecodeAckHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestDiscoveryHeaderRoundTrip(t *testing.T) {
	h := DiscoveryHeader{PayloadSize: 64, TransmissionID: 0xABCD1234, CRC: 0x1122}
	wire := EncodeDiscoveryHeader(h)
	if len(wire) != discoveryHeaderLen {
		t.Fatalf("got len %d, want %d", len(wire), discoveryHeaderLen)
	}
	got, err := DecodeDiscoveryHeader(wire)
	if err != nil {
		t.Fatalf("DecodeDiscoveryHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestBuildTruthTable(t *testing.T) {
	received := map[uint32]bool{11: true, 13: true}
	table := BuildTruthTable(9, received, 13)
	want := []byte{0, 1, 0, 1}
	if len(table) != len(want) {
		t.Fatalf("got len %d, want %d", len(table), len(want))
	}
	for i := range want {
		if table[i] != want[i] {
			t.Fatalf("table[%d] = %d, want %d", i, table[i], want[i])
		}
	}
}

func TestBuildTruthTableEmptyWhenCaughtUp(t *testing.T) {
	if table := BuildTruthTable(5, nil, 5); table != nil {
		t.Fatalf("expected nil table, got %v", table)
	}
}

func TestPeekMagicTooShort(t *testing.T) {
	if _, err := PeekMagic([]byte{1, 2}); err != ErrHeaderTooShort {
		t.Fatalf("got %v, want ErrHeaderTooShort", err)
	}
}
