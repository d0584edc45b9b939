package bcudp

import "encoding/binary"

// DiscoveryHeader is the 20-byte Discovery datagram header
// (spec.md Section 4.3).
type DiscoveryHeader struct {
	PayloadSize    uint32
	TransmissionID uint32
	CRC            uint32
}

const discoveryHeaderLen = 20

// EncodeDiscoveryHeader serializes a Discovery header.
func EncodeDiscoveryHeader(h DiscoveryHeader) []byte {
	buf := make([]byte, discoveryHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], MagicDiscovery)
	binary.LittleEndian.PutUint32(buf[4:8], h.PayloadSize)
	binary.LittleEndian.PutUint32(buf[8:12], 0x01000000)
	binary.LittleEndian.PutUint32(buf[12:16], h.TransmissionID)
	binary.LittleEndian.PutUint32(buf[16:20], h.CRC)
	return buf
}

// DecodeDiscoveryHeader parses a Discovery header from data.
func DecodeDiscoveryHeader(data []byte) (DiscoveryHeader, error) {
	var h DiscoveryHeader
	if len(data) < discoveryHeaderLen {
		return h, ErrHeaderTooShort
	}
	if binary.LittleEndian.Uint32(data[0:4]) != MagicDiscovery {
		return h, ErrBadMagic
	}
	h.PayloadSize = binary.LittleEndian.Uint32(data[4:8])
	h.TransmissionID = binary.LittleEndian.Uint32(data[12:16])
	h.CRC = binary.LittleEndian.Uint32(data[16:20])
	return h, nil
}

// AckHeader is the 28-byte Ack datagram header (spec.md Section 4.3).
// The two zero words are always written as zero and skipped on decode;
// the "unknown" word is opaque per spec.md Section 9 and is carried in
// Unknown without interpretation.
type AckHeader struct {
	ConnectionID uint32
	LastReceived uint32 // last-contiguous-received-packet-id
	Unknown      uint32 // opaque per spec.md Section 9; echo 0 when originating
	PayloadSize  uint32
}

const ackHeaderLen = 28

// EncodeAckHeader serializes an Ack header; the payload (truth table)
// follows immediately and is appended separately by the caller.
func EncodeAckHeader(h AckHeader) []byte {
	buf := make([]byte, ackHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], MagicAck)
	binary.LittleEndian.PutUint32(buf[4:8], h.ConnectionID)
	binary.LittleEndian.PutUint32(buf[8:12], 0)
	binary.LittleEndian.PutUint32(buf[12:16], 0)
	binary.LittleEndian.PutUint32(buf[16:20], h.LastReceived)
	binary.LittleEndian.PutUint32(buf[20:24], h.Unknown)
	binary.LittleEndian.PutUint32(buf[24:28], h.PayloadSize)
	return buf
}

// DecodeAckHeader parses an Ack header; data must be at least ackHeaderLen.
func DecodeAckHeader(data []byte) (AckHeader, error) {
	var h AckHeader
	if len(data) < ackHeaderLen {
		return h, ErrHeaderTooShort
	}
	if binary.LittleEndian.Uint32(data[0:4]) != MagicAck {
		return h, ErrBadMagic
	}
	h.ConnectionID = binary.LittleEndian.Uint32(data[4:8])
	h.LastReceived = binary.LittleEndian.Uint32(data[16:20])
	h.Unknown = binary.LittleEndian.Uint32(data[20:24])
	h.PayloadSize = binary.LittleEndian.Uint32(data[24:28])
	return h, nil
}

// DataHeader is the 20-byte Data datagram header (spec.md Section 4.3).
type DataHeader struct {
	ConnectionID uint32
	PacketID     uint32 // monotonic per direction
	PayloadSize  uint32
}

const dataHeaderLen = 20

// EncodeDataHeader serializes a Data header.
func EncodeDataHeader(h DataHeader) []byte {
	buf := make([]byte, dataHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], MagicData)
	binary.LittleEndian.PutUint32(buf[4:8], h.ConnectionID)
	binary.LittleEndian.PutUint32(buf[8:12], 0)
	binary.LittleEndian.PutUint32(buf[12:16], h.PacketID)
	binary.LittleEndian.PutUint32(buf[16:20], h.PayloadSize)
	return buf
}

// DecodeDataHeader parses a Data header from data.
func DecodeDataHeader(data []byte) (DataHeader, error) {
	var h DataHeader
	if len(data) < dataHeaderLen {
		return h, ErrHeaderTooShort
	}
	if binary.LittleEndian.Uint32(data[0:4]) != MagicData {
		return h, ErrBadMagic
	}
	h.ConnectionID = binary.LittleEndian.Uint32(data[4:8])
	h.PacketID = binary.LittleEndian.Uint32(data[12:16])
	h.PayloadSize = binary.LittleEndian.Uint32(data[16:20])
	return h, nil
}

// PeekMagic reads the 4-byte magic used to multiplex datagram kinds on a
// shared UDP socket (spec.md Section 5, "Shared resources").
func PeekMagic(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, ErrHeaderTooShort
	}
	return binary.LittleEndian.Uint32(data[0:4]), nil
}

// BuildTruthTable constructs an Ack payload: one byte per packet id after
// last, 1 if received, 0 if missing (spec.md Section 4.3). lastContiguous
// may be the wraparound sentinel ^uint32(0) (RecvWindow's "nothing
// consumed yet" state, equivalent to -1); the subtraction below wraps
// correctly so the table still starts at packet id 0.
func BuildTruthTable(lastContiguous uint32, received map[uint32]bool, highWatermark uint32) []byte {
	if highWatermark == lastContiguous {
		return nil
	}
	table := make([]byte, highWatermark-lastContiguous)
	for i := range table {
		id := lastContiguous + 1 + uint32(i)
		if received[id] {
			table[i] = 1
		}
	}
	return table
}
