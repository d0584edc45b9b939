// Package media de-encapsulates the container embedded in message-id 3
// (Preview) payloads into typed access units (spec.md Section 4.8). It
// is attached downstream of pkg/router's PreviewSubscription: each
// delivered Message's Payload is fed to a Decoder, which reassembles
// packets that may span multiple deliveries and emits one MediaPacket
// per complete packet.
package media

import "time"

// PacketKind identifies a media container packet's magic-keyed shape.
type PacketKind int

const (
	KindInfoV1 PacketKind = iota
	KindInfoV2
	KindIFrame
	KindPFrame
	KindAAC
	KindADPCM
)

func (k PacketKind) String() string {
	switch k {
	case KindInfoV1:
		return "InfoV1"
	case KindInfoV2:
		return "InfoV2"
	case KindIFrame:
		return "IFrame"
	case KindPFrame:
		return "PFrame"
	case KindAAC:
		return "AAC"
	case KindADPCM:
		return "ADPCM"
	default:
		return "Unknown"
	}
}

// Codec identifies the video codec named in an IFrame/PFrame header.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecH264
	CodecH265
)

func (c Codec) String() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecH265:
		return "h265"
	default:
		return "unknown"
	}
}

func parseCodec(b []byte) Codec {
	switch string(b) {
	case "H264":
		return CodecH264
	case "H265":
		return CodecH265
	default:
		return CodecUnknown
	}
}

// MediaPacket is one fully-reassembled unit from the Preview container
// stream (spec.md Section 4.8). Only the fields relevant to Kind are
// populated; the rest are zero.
type MediaPacket struct {
	Kind  PacketKind
	Codec Codec

	// InfoV1 / InfoV2
	Width, Height    uint32
	FPS              uint8
	StartUTC, EndUTC time.Time

	// IFrame / PFrame
	MicrosecondsTimestamp uint32
	POSIXSeconds          uint32 // IFrame only; zero on PFrame

	// ADPCM
	BlockType uint16
	BlockSize uint16

	Payload []byte
}

func parseUTC6(b []byte) time.Time {
	return time.Date(1900+int(b[0]), time.Month(b[1]), int(b[2]), int(b[3]), int(b[4]), int(b[5]), 0, time.UTC)
}
