// Package bcproto implements the byte-level encode/decode primitives for
// the BC wire protocol: frame headers, the XOR keystream, AES-CFB128
// wrapping, and the CRC used by BcUDP discovery. It never rejects a
// message based on its content -- only the framer and session layers
// decide whether a decoded frame is semantically usable.
package bcproto

import "encoding/binary"

// HeaderB12 is the 4-byte field historically called "header-b12": channel
// id, stream id, a reserved zero byte, and the message handle used to
// correlate replies to requests (spec.md Section 3).
type HeaderB12 struct {
	ChannelID     uint8
	StreamID      StreamID
	MessageHandle uint8
}

// EncryptionOffset interprets the 4 header-b12 bytes as a little-endian
// u32, which is the "encryption offset" the XOR keystream consumes
// (spec.md Section 3).
func (h HeaderB12) EncryptionOffset() uint32 {
	buf := [4]byte{h.ChannelID, uint8(h.StreamID), 0, h.MessageHandle}
	return binary.LittleEndian.Uint32(buf[:])
}

// Header is the decoded BC frame header, covering both the 20-byte and
// 24-byte shapes (spec.md Section 3, BcFrame).
type Header struct {
	Magic        uint32
	MessageID    uint32
	BodyLength   uint32
	B12          HeaderB12
	StatusOrFlag uint16 // modern: status word; legacy: unused, see LegacyFlag/LegacyMarker
	Class        MessageClass
	PayloadOffset uint32 // only meaningful when Class.HasPayloadOffset()

	// Legacy-only fields (Class == ClassLegacy).
	LegacyFlag   uint8 // byte 16 going out: level<<4 | 0xdc ; coming back: level | 0xdd
	LegacyMarker uint8 // byte 17: 0xdc on request, 0xdd on response
}

// Len returns the wire length of this header.
func (h Header) Len() int {
	return h.Class.HeaderLength()
}

// Encode serializes the header. The caller is responsible for choosing a
// Class consistent with whether PayloadOffset is needed.
func (h Header) Encode() []byte {
	buf := make([]byte, h.Len())
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.MessageID)
	binary.LittleEndian.PutUint32(buf[8:12], h.BodyLength)
	buf[12] = h.B12.ChannelID
	buf[13] = uint8(h.B12.StreamID)
	buf[14] = 0
	buf[15] = h.B12.MessageHandle

	if h.Class == ClassLegacy {
		buf[16] = h.LegacyFlag
		buf[17] = h.LegacyMarker
	} else {
		binary.LittleEndian.PutUint16(buf[16:18], h.StatusOrFlag)
	}
	binary.LittleEndian.PutUint16(buf[18:20], uint16(h.Class))

	if h.Class.HasPayloadOffset() {
		binary.LittleEndian.PutUint32(buf[20:24], h.PayloadOffset)
	}
	return buf
}

// DecodeHeader decodes a BC frame header from data. It performs the
// two-pass read spec.md Section 9 requires: the class field at offset 18
// must be inspected before the header length -- and therefore whether a
// payload-offset field follows -- is known.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < 20 {
		return h, ErrHeaderTooShort
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != MagicClientDevice && magic != MagicDeviceDevice {
		return h, ErrInvalidMagic
	}

	h.Magic = magic
	h.MessageID = binary.LittleEndian.Uint32(data[4:8])
	h.BodyLength = binary.LittleEndian.Uint32(data[8:12])
	h.B12 = HeaderB12{
		ChannelID:     data[12],
		StreamID:      StreamID(data[13]),
		MessageHandle: data[15],
	}
	h.Class = MessageClass(binary.LittleEndian.Uint16(data[18:20]))

	if h.Class == ClassLegacy {
		h.LegacyFlag = data[16]
		h.LegacyMarker = data[17]
	} else {
		h.StatusOrFlag = binary.LittleEndian.Uint16(data[16:18])
	}

	need := h.Class.HeaderLength()
	if len(data) < need {
		return h, ErrHeaderTooShort
	}
	if h.Class.HasPayloadOffset() {
		h.PayloadOffset = binary.LittleEndian.Uint32(data[20:24])
	}

	if h.PayloadOffset > h.BodyLength {
		return h, ErrInvalidPayloadOffset
	}

	return h, nil
}

// EncryptionFlagByte builds the client-proposed legacy flag byte:
// level<<4 | 0xdc (spec.md Section 4.6).
func EncryptionFlagByte(level EncryptionLevel) uint8 {
	return uint8(level)<<4 | legacyFlagLowNibble
}

// ParseEncryptionResponse extracts the server-selected level from a
// legacy response flag byte: the low nibble is the level, the marker
// byte must be 0xdd (spec.md Section 4.6).
func ParseEncryptionResponse(flag byte) EncryptionLevel {
	return EncryptionLevel(flag & 0x0f)
}
