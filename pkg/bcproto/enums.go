package bcproto

// Magic values that identify a BC frame's origin (spec.md Section 6).
const (
	// MagicClientDevice marks a frame travelling between a client and a device.
	MagicClientDevice uint32 = 0x0ABCDEF0
	// MagicDeviceDevice marks a frame travelling between two devices (relay).
	MagicDeviceDevice uint32 = 0x0FEDCBA0
)

// MessageClass selects the header shape and, for legacy frames, the
// encryption-flag byte layout (spec.md Section 3, "Header-b12").
type MessageClass uint16

const (
	// ClassLegacy is the 20-byte legacy login header (encryption flag + DC/DD marker).
	ClassLegacy MessageClass = 0x6514
	// ClassModern20 is the 20-byte modern header (no payload offset).
	ClassModern20 MessageClass = 0x6614
	// ClassModern24 is the 24-byte modern header carrying a payload offset.
	ClassModern24 MessageClass = 0x6414
	// ClassExtended is an alternate 24-byte header spelling observed on the wire.
	ClassExtended MessageClass = 0x0000
)

// HeaderLength returns the wire length of the header for this class.
func (c MessageClass) HeaderLength() int {
	switch c {
	case ClassLegacy, ClassModern20:
		return 20
	case ClassModern24, ClassExtended:
		return 24
	default:
		return 20
	}
}

// HasPayloadOffset reports whether this class carries the 4-byte
// payload-offset field (spec.md Section 3, BcFrame invariants).
func (c MessageClass) HasPayloadOffset() bool {
	return c == ClassModern24 || c == ClassExtended
}

// StreamID identifies the requested video quality for a Preview message
// (spec.md Section 3, Header-b12).
type StreamID uint8

const (
	StreamHD       StreamID = 0 // "Clear"
	StreamSD       StreamID = 1 // "Fluent"
	StreamBalanced StreamID = 4
)

// EncryptionLevel is the client-proposed / server-selected encryption
// ceiling exchanged in the legacy login flag byte (spec.md Section 4.6).
type EncryptionLevel uint8

const (
	EncryptionNone        EncryptionLevel = 0
	EncryptionBCXOR       EncryptionLevel = 1
	EncryptionAESServer   EncryptionLevel = 2
	EncryptionAESClient   EncryptionLevel = 3
)

// Legacy login flag-byte markers (spec.md Section 4.6).
const (
	legacyFlagLowNibble  uint8 = 0xdc // request marker, OR'd with level<<4
	legacyByte17Request  uint8 = 0xdc
	legacyByte17Response uint8 = 0xdd
)

// Well-known BC message IDs the core correlates or special-cases
// (spec.md Section 6).
const (
	MsgLogin         uint32 = 1
	MsgLogout        uint32 = 2
	MsgPreview       uint32 = 3
	MsgPreviewStop   uint32 = 4
	MsgTalkAbility   uint32 = 10
	MsgPTZControl    uint32 = 18
	MsgReboot        uint32 = 23
	MsgAlarmEvent    uint32 = 33 // push, handle=0
	MsgAbilitySupport uint32 = 58
	MsgUID           uint32 = 114
	MsgStreamInfo    uint32 = 146
	MsgAbilityInfo   uint32 = 151
	MsgPTZPreset     uint32 = 190
	MsgDeviceSupport uint32 = 199
	MsgLEDRead       uint32 = 208
	MsgLEDWrite      uint32 = 209
	MsgKeepAlive     uint32 = 234
	MsgBatteryInfo   uint32 = 252
	MsgBatteryList   uint32 = 253
)

// StatusOK and StatusBadRequest are the canonical status-word values
// (spec.md Section 3, BcMessage). The wire bytes are little-endian, so
// the on-the-wire byte pair "c8 00" decodes to 0x00c8 and "90 01" to 0x0190.
const (
	StatusOK         uint16 = 0x00c8
	StatusBadRequest uint16 = 0x0190
)
