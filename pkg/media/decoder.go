package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"

	"github.com/pion/logging"
)

const magicLen = 4

var knownMagics = map[string]PacketKind{
	"\x31\x30\x30\x31": KindInfoV1,
	"\x31\x30\x30\x32": KindInfoV2,
	"\x30\x30\x64\x63": KindIFrame,
	"\x30\x31\x64\x63": KindPFrame,
	"\x30\x35\x77\x62": KindAAC,
	"\x30\x31\x77\x62": KindADPCM,
}

// Config configures a Decoder.
type Config struct {
	// SinkBufferSize bounds the Packets() channel. Defaults to 16.
	SinkBufferSize int
	LoggerFactory  logging.LoggerFactory
}

// Decoder is a stateful, in-order filter over one Preview stream's byte
// payloads. One Decoder per PreviewSubscription; not safe for concurrent
// calls to Feed.
type Decoder struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	codec Codec

	sink    chan *MediaPacket
	log     logging.LeveledLogger
	desyncs uint64
}

// NewDecoder creates a Decoder with a fresh reassembly buffer and a
// codec inferred from the first IFrame it sees (spec.md Section 4.8).
func NewDecoder(cfg Config) *Decoder {
	size := cfg.SinkBufferSize
	if size <= 0 {
		size = 16
	}
	d := &Decoder{sink: make(chan *MediaPacket, size)}
	if cfg.LoggerFactory != nil {
		d.log = cfg.LoggerFactory.NewLogger("media")
	}
	return d
}

// Packets returns the channel of emitted MediaPackets.
func (d *Decoder) Packets() <-chan *MediaPacket {
	return d.sink
}

// Desyncs returns the number of bytes discarded while resynchronizing
// on an unrecognized magic (spec.md Section 7, "Desync").
func (d *Decoder) Desyncs() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desyncs
}

// Feed appends data to the reassembly buffer and emits every packet it
// can complete, in order. A send to the sink channel blocks (bounded by
// ctx) so a slow consumer applies backpressure all the way to the
// caller (spec.md Section 5, "subscriber-sink readiness").
func (d *Decoder) Feed(ctx context.Context, data []byte) error {
	d.mu.Lock()
	d.buf.Write(data)
	d.mu.Unlock()

	for {
		pkt, consumed, err := d.tryParse()
		if err != nil {
			return err
		}
		if consumed == 0 {
			return nil
		}

		d.mu.Lock()
		d.buf.Next(consumed)
		d.mu.Unlock()

		if pkt == nil {
			continue
		}
		select {
		case d.sink <- pkt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close signals no further data will arrive. It closes Packets() and
// reports ErrTruncated if a partial packet remains in the buffer.
func (d *Decoder) Close() error {
	d.mu.Lock()
	remaining := d.buf.Len()
	d.mu.Unlock()
	close(d.sink)
	if remaining > 0 {
		return ErrTruncated
	}
	return nil
}

// tryParse attempts to parse one packet (or one resync step) from the
// head of the buffer without consuming more than it returns via
// consumed. consumed == 0 means "not enough data yet, wait for Feed."
func (d *Decoder) tryParse() (*MediaPacket, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := d.buf.Bytes()
	if len(buf) < magicLen {
		return nil, 0, nil
	}

	kind, ok := knownMagics[string(buf[:magicLen])]
	if !ok {
		d.desyncs++
		if d.log != nil {
			d.log.Warnf("media: desync, discarding byte 0x%02x", buf[0])
		}
		return nil, 1, nil
	}

	switch kind {
	case KindInfoV1, KindInfoV2:
		return parseInfo(kind, buf)
	case KindIFrame:
		return d.parseFrame(KindIFrame, buf, true)
	case KindPFrame:
		return d.parseFrame(KindPFrame, buf, false)
	case KindAAC:
		return parseAAC(buf)
	case KindADPCM:
		return parseADPCM(buf)
	default:
		return nil, 0, nil
	}
}

// parseInfo decodes InfoV1/InfoV2: 4 magic, 4 self-length, 4 width,
// 4 height, 1 unknown, 1 fps, 6 start UTC, 6 end UTC, 2 reserved.
func parseInfo(kind PacketKind, buf []byte) (*MediaPacket, int, error) {
	const infoLen = 32
	if len(buf) < infoLen {
		return nil, 0, nil
	}
	pkt := &MediaPacket{
		Kind:     kind,
		Width:    binary.LittleEndian.Uint32(buf[8:12]),
		Height:   binary.LittleEndian.Uint32(buf[12:16]),
		FPS:      buf[17],
		StartUTC: parseUTC6(buf[18:24]),
		EndUTC:   parseUTC6(buf[24:30]),
	}
	return pkt, infoLen, nil
}

// parseFrame decodes IFrame/PFrame. IFrame header: 4 magic, 4 codec,
// 4 payload-size, 4 unknown, 4 microseconds, 4 unknown, 4 POSIX
// seconds, 4 unknown (32 bytes). PFrame drops the POSIX-seconds/unknown
// pair (24 bytes).
func (d *Decoder) parseFrame(kind PacketKind, buf []byte, isIFrame bool) (*MediaPacket, int, error) {
	headerLen := 24
	if isIFrame {
		headerLen = 32
	}
	if len(buf) < headerLen {
		return nil, 0, nil
	}

	codec := parseCodec(buf[4:8])
	payloadSize := binary.LittleEndian.Uint32(buf[8:12])
	micros := binary.LittleEndian.Uint32(buf[16:20])
	var posix uint32
	if isIFrame {
		posix = binary.LittleEndian.Uint32(buf[24:28])
	}

	total := headerLen + int(payloadSize)
	if len(buf) < total {
		return nil, 0, nil
	}

	if isIFrame && d.codec == CodecUnknown {
		d.codec = codec
	}
	effective := codec
	if effective == CodecUnknown {
		effective = d.codec
	}

	payload := append([]byte(nil), buf[headerLen:total]...)
	pkt := &MediaPacket{
		Kind:                  kind,
		Codec:                 effective,
		MicrosecondsTimestamp: micros,
		POSIXSeconds:          posix,
		Payload:               payload,
	}
	return pkt, total, nil
}

// parseAAC decodes an AAC packet: 4 magic, 2 size, 2 size (identical).
func parseAAC(buf []byte) (*MediaPacket, int, error) {
	const headerLen = 8
	if len(buf) < headerLen {
		return nil, 0, nil
	}
	size := binary.LittleEndian.Uint16(buf[4:6])
	total := headerLen + int(size)
	if len(buf) < total {
		return nil, 0, nil
	}
	payload := append([]byte(nil), buf[headerLen:total]...)
	return &MediaPacket{Kind: KindAAC, Payload: payload}, total, nil
}

// parseADPCM decodes an ADPCM packet: 4 magic, 2 size, 2 size, then an
// inner 4-byte block header (2 bytes type, 2 bytes block-size) followed
// by 4+block-size bytes of DVI-4 ADPCM.
func parseADPCM(buf []byte) (*MediaPacket, int, error) {
	const outerLen = 8
	const innerHeaderLen = 4
	if len(buf) < outerLen+innerHeaderLen {
		return nil, 0, nil
	}
	blockType := binary.LittleEndian.Uint16(buf[outerLen : outerLen+2])
	blockSize := binary.LittleEndian.Uint16(buf[outerLen+2 : outerLen+4])
	total := outerLen + innerHeaderLen + 4 + int(blockSize)
	if len(buf) < total {
		return nil, 0, nil
	}
	payload := append([]byte(nil), buf[outerLen+innerHeaderLen:total]...)
	return &MediaPacket{
		Kind:      KindADPCM,
		BlockType: blockType,
		BlockSize: blockSize,
		Payload:   payload,
	}, total, nil
}
