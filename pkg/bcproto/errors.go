package bcproto

import "errors"

// Codec and header errors.
var (
	ErrHeaderTooShort     = errors.New("bcproto: header data too short")
	ErrInvalidMagic       = errors.New("bcproto: unrecognized magic")
	ErrInvalidPayloadOffset = errors.New("bcproto: payload offset exceeds body length")
	ErrBodyTooShort       = errors.New("bcproto: body shorter than declared length")
	ErrInvalidXORInput    = errors.New("bcproto: xor keystream requires non-nil buffer")
	ErrInvalidAESKey      = errors.New("bcproto: AES key must be 16 bytes")
	ErrInvalidAESIV       = errors.New("bcproto: AES IV must be 16 bytes")
)

// Header byte layout constants (spec.md Section 3, Header-b12 and Section 9).
const (
	// HeaderB12Offset is the byte offset of the 4-byte "header-b12" field
	// (channel-id, stream-id, zero, message-handle) within the frame header.
	HeaderB12Offset = 12

	// ClassFieldOffset is the byte offset of the message-class u16, which
	// must be read before the header length can be determined
	// (spec.md Section 9, "double-meaning of header bytes 16-17").
	ClassFieldOffset = 18

	// LegacyFlagOffset is byte 16 of a legacy (class 0x6514) header: the
	// encryption-negotiation flag going out, or the selected level coming back.
	LegacyFlagOffset = 16

	// LegacyMarkerOffset is byte 17 of a legacy header: 0xDC on request, 0xDD on response.
	LegacyMarkerOffset = 17

	// StatusFieldOffset is the u16 status/flag field shared by legacy (u16) and
	// modern (u16) headers alike, at byte offset 16.
	StatusFieldOffset = 16

	// PayloadOffsetFieldOffset is where the optional 4-byte payload-offset
	// field sits, immediately after the 20-byte common prefix.
	PayloadOffsetFieldOffset = 20
)

// XORKey is the fixed 8-byte control-body XOR key (spec.md Section 6).
var XORKey = [8]byte{0x1F, 0x2D, 0x3C, 0x4B, 0x5A, 0x69, 0x78, 0xFF}

// AESIV is the fixed 16-byte AES-CFB128 initialization vector (spec.md Section 6).
var AESIV = []byte("0123456789abcdef")
