// Package bcudp implements the BcUDP reliability layer: the discovery
// handshake, sequence/ACK bookkeeping, retransmission, and fragment
// reassembly that let BC frames travel over lossy UDP datagrams
// (spec.md Section 4.3). Its output is the same kind of byte stream TCP
// produces, handed to pkg/bcframe for message-level decoding.
package bcudp

import "time"

// Datagram magics (spec.md Section 6), stored little-endian on the wire.
const (
	MagicDiscovery uint32 = 0x2A87CF3A
	MagicAck       uint32 = 0x2A87CF20
	MagicData      uint32 = 0x2A87CF10
	MagicRelay     uint32 = 0x2A87CF31
)

// Default ports (spec.md Section 6).
const (
	PortBroadcastXML    = 2015
	PortBroadcastLegacy = 2000
	PortRegistrar       = 2018
)

// Timing constants (spec.md Section 4.3, Section 6).
const (
	DiscoveryRetransmitInterval = 500 * time.Millisecond
	DataRetransmitInterval      = 1000 * time.Millisecond
	DefaultMTU                  = 1350
)

// MaxAckTruthTableLen is the hard protocol-abort threshold: a truth table
// this long or longer signals the peer wants to disconnect
// (spec.md Section 3, Section 6, Section 8 scenario 4).
const MaxAckTruthTableLen = 205

// udpKeyTable is the 32-bit-word discovery keystream table, distinct from
// the 8-byte control-body XOR key (spec.md Section 9: "do not unify
// them").
var udpKeyTable = [8]uint32{
	0x1F2D3C4B, 0x5A6C7F8D, 0x38172E4B, 0x8271635A,
	0x863F1A2B, 0xA5C6F7D8, 0x8371E1B4, 0x17F2D3A5,
}
