// Package bcframe turns an inbound byte stream into whole BC messages and
// serializes outbound messages back into bytes (spec.md Section 4.2). It
// never decides whether a decoded message is acceptable -- that is the
// Router's and Session's job; a bad magic just means this frame is
// skipped and the stream is resynchronized at the next byte.
package bcframe

import (
	"bufio"
	"io"

	"github.com/bcbridge/bc/pkg/bcproto"
)

// RawFrame is a frame as read from the wire, before decryption: the
// header plus the still-encrypted body (spec.md Section 4.2, "Emission
// includes the raw encrypted body and the resolved encryption mode").
type RawFrame struct {
	Header bcproto.Header
	Body   []byte
}

// Reader incrementally decodes BC frames from a byte stream (TCP or the
// reassembled byte stream BcUDP's reliability layer produces).
type Reader struct {
	r *bufio.Reader
}

// maxFrameSize bounds the largest header+body this reader will buffer in
// one Peek, generous enough for a single H.264/H.265 I-frame access unit
// carried in one BC message body.
const maxFrameSize = 4 * 1024 * 1024

// NewReader wraps r for frame-at-a-time reading.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, maxFrameSize)}
}

// ReadFrame reads one BC frame. On ErrBadMagic it has already consumed one
// byte so the caller can simply call ReadFrame again to resynchronize, as
// spec.md Section 4.2's "skip" instruction requires.
func (fr *Reader) ReadFrame() (*RawFrame, error) {
	// Peek the fixed 20-byte common prefix, which is enough to read the
	// magic and the class field (spec.md Section 9: class MUST be read
	// before header length is known).
	prefix, err := fr.peekFull(20)
	if err != nil {
		return nil, err
	}

	h, err := bcproto.DecodeHeader(prefix)
	if err == bcproto.ErrInvalidMagic {
		// Skip one byte and let the caller retry -- resynchronizes the stream.
		fr.r.Discard(1)
		return nil, ErrBadMagic
	}
	if err == bcproto.ErrHeaderTooShort && h.Class.HeaderLength() > len(prefix) {
		// 24-byte class: only the payload-offset field lies past the
		// prefix, and the second decode below reads it.
		err = nil
	}
	if err != nil {
		return nil, err
	}

	headerLen := h.Class.HeaderLength()
	if headerLen+int(h.BodyLength) > maxFrameSize {
		return nil, ErrTruncated
	}
	full, err := fr.peekFull(headerLen + int(h.BodyLength))
	if err != nil {
		return nil, err
	}

	// Re-decode against the full header (picks up the payload-offset field
	// for 24-byte classes, which the 20-byte prefix peek didn't include).
	h, err = bcproto.DecodeHeader(full)
	if err != nil {
		return nil, err
	}

	body := make([]byte, h.BodyLength)
	copy(body, full[headerLen:headerLen+int(h.BodyLength)])

	if _, err := fr.r.Discard(headerLen + int(h.BodyLength)); err != nil {
		return nil, err
	}

	return &RawFrame{Header: h, Body: body}, nil
}

// peekFull blocks until n bytes are buffered or an error occurs,
// translating io.EOF on a short read into ErrTruncated per spec.md
// Section 7 (TCP: transport-fatal; the caller decides what "fatal" means).
func (fr *Reader) peekFull(n int) ([]byte, error) {
	buf, err := fr.r.Peek(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}
	return buf, nil
}

// Encode serializes a header and its (already encrypted, already joined)
// body into wire bytes, ready to hand to a transport.
func Encode(h bcproto.Header, body []byte) []byte {
	encoded := h.Encode()
	out := make([]byte, 0, len(encoded)+len(body))
	out = append(out, encoded...)
	out = append(out, body...)
	return out
}

// Writer serializes outbound frames onto an io.Writer, used by the TCP
// transport. BcUDP instead chunks Encode's output directly into Data
// packets (pkg/bcudp), so it does not use this type.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for frame-at-a-time writing.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes an encoded header+body as one frame.
func (fw *Writer) WriteFrame(h bcproto.Header, body []byte) error {
	_, err := fw.w.Write(Encode(h, body))
	return err
}
