package bcframe

import (
	"bytes"
	"io"
	"testing"

	"github.com/bcbridge/bc/pkg/bcproto"
)

func TestReadFrameRoundTrip(t *testing.T) {
	body := []byte("<Login><userName>admin</userName></Login>")
	h := bcproto.Header{
		Magic:      bcproto.MagicClientDevice,
		MessageID:  bcproto.MsgLogin,
		BodyLength: uint32(len(body)),
		Class:      bcproto.ClassModern24,
		B12:        bcproto.HeaderB12{MessageHandle: 1},
	}

	wire := Encode(h, body)
	reader := NewReader(bytes.NewReader(wire))

	frame, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.Header.MessageID != bcproto.MsgLogin {
		t.Fatalf("got message id %d, want %d", frame.Header.MessageID, bcproto.MsgLogin)
	}
	if !bytes.Equal(frame.Body, body) {
		t.Fatalf("body mismatch: got %q, want %q", frame.Body, body)
	}
}

func TestReadFrameSkipsBadMagicAndResyncs(t *testing.T) {
	body := []byte("payload")
	h := bcproto.Header{
		Magic:      bcproto.MagicClientDevice,
		MessageID:  bcproto.MsgLogout,
		BodyLength: uint32(len(body)),
		Class:      bcproto.ClassModern20,
	}
	good := Encode(h, body)

	garbage := []byte{0xde, 0xad, 0xbe, 0xef}
	stream := append(append([]byte{}, garbage...), good...)

	reader := NewReader(bytes.NewReader(stream))

	var frame *RawFrame
	var err error
	for i := 0; i < len(garbage)+1; i++ {
		frame, err = reader.ReadFrame()
		if err == nil {
			break
		}
		if err != ErrBadMagic {
			t.Fatalf("unexpected error during resync: %v", err)
		}
	}
	if err != nil {
		t.Fatalf("failed to resynchronize: %v", err)
	}
	if frame.Header.MessageID != bcproto.MsgLogout {
		t.Fatalf("got message id %d after resync, want %d", frame.Header.MessageID, bcproto.MsgLogout)
	}
}

func TestReadFrameTruncatedBody(t *testing.T) {
	h := bcproto.Header{
		Magic:      bcproto.MagicClientDevice,
		MessageID:  bcproto.MsgPreview,
		BodyLength: 100,
		Class:      bcproto.ClassModern20,
	}
	// Only send the header, no body.
	wire := h.Encode()
	reader := NewReader(bytes.NewReader(wire))

	if _, err := reader.ReadFrame(); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestMultipleFramesBackToBack(t *testing.T) {
	var buf bytes.Buffer
	ids := []uint32{bcproto.MsgLogin, bcproto.MsgPreview, bcproto.MsgLogout}
	for _, id := range ids {
		h := bcproto.Header{
			Magic:      bcproto.MagicClientDevice,
			MessageID:  id,
			BodyLength: 4,
			Class:      bcproto.ClassModern20,
		}
		buf.Write(Encode(h, []byte{1, 2, 3, 4}))
	}

	reader := NewReader(&buf)
	for _, id := range ids {
		frame, err := reader.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		if frame.Header.MessageID != id {
			t.Fatalf("got %d, want %d", frame.Header.MessageID, id)
		}
	}

	if _, err := reader.ReadFrame(); err != ErrTruncated && err != io.EOF {
		t.Fatalf("expected stream end, got %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	h := bcproto.Header{
		Magic:      bcproto.MagicClientDevice,
		MessageID:  bcproto.MsgPTZControl,
		BodyLength: 2,
		Class:      bcproto.ClassModern20,
	}
	if err := w.WriteFrame(h, []byte{9, 9}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	reader := NewReader(&buf)
	frame, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame.Header.MessageID != bcproto.MsgPTZControl {
		t.Fatalf("got %d, want %d", frame.Header.MessageID, bcproto.MsgPTZControl)
	}
}
