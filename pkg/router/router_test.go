package router

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bcbridge/bc/pkg/bcproto"
)

type fakeSender struct {
	mu      sync.Mutex
	handle  uint8
	sent    []sentMsg
	sendErr error
}

type sentMsg struct {
	messageID uint32
	handle    uint8
	extension []byte
	payload   []byte
}

func (f *fakeSender) NextHandle() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle++
	return f.handle
}

func (f *fakeSender) Send(messageID uint32, handle uint8, extension, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMsg{messageID, handle, extension, payload})
	return nil
}

func (f *fakeSender) lastSent() (sentMsg, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMsg{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func TestRequestCompletesOnMatchingHandle(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message, 1)
	r := New(sess, incoming, Config{})

	done := make(chan struct{})
	var resp *bcproto.Message
	var reqErr error
	go func() {
		resp, reqErr = r.Request(context.Background(), bcproto.MsgLogin, nil, nil)
		close(done)
	}()

	var sent sentMsg
	for {
		var ok bool
		sent, ok = sess.lastSent()
		if ok {
			break
		}
		time.Sleep(time.Millisecond)
	}

	incoming <- &bcproto.Message{MessageID: bcproto.MsgLogin, Handle: sent.handle, Status: bcproto.StatusOK}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Request did not return")
	}
	if reqErr != nil {
		t.Fatalf("unexpected error: %v", reqErr)
	}
	if resp.Handle != sent.handle {
		t.Fatalf("response handle %d, want %d", resp.Handle, sent.handle)
	}
}

func TestRequestTimesOutOnContextCancel(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message)
	r := New(sess, incoming, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Request(ctx, bcproto.MsgLogin, nil, nil)
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("got %v, want ErrTimedOut", err)
	}
}

func TestSubscribeReceivesPushEvents(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message, 1)
	r := New(sess, incoming, Config{})

	sub, err := r.Subscribe(33, 4)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	incoming <- &bcproto.Message{MessageID: 33, Handle: 0}

	select {
	case msg := <-sub.Messages():
		if msg.MessageID != 33 {
			t.Fatalf("got message-id %d, want 33", msg.MessageID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscription did not receive event")
	}
	sub.Close()
}

func TestPreviewStreamRoutesRepeatedHandle(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message, 4)
	r := New(sess, incoming, Config{})

	sub, err := r.StartPreview(0, StreamTypeMain, 4)
	if err != nil {
		t.Fatalf("StartPreview: %v", err)
	}
	sent, ok := sess.lastSent()
	if !ok || sent.messageID != bcproto.MsgPreview {
		t.Fatalf("expected Preview send, got %+v ok=%v", sent, ok)
	}

	for i := 0; i < 3; i++ {
		incoming <- &bcproto.Message{MessageID: bcproto.MsgPreview, Handle: sent.handle, Payload: []byte{byte(i)}}
	}

	for i := 0; i < 3; i++ {
		select {
		case msg := <-sub.Messages():
			if msg.Payload[0] != byte(i) {
				t.Fatalf("frame %d: got payload %v", i, msg.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("frame %d: did not arrive", i)
		}
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	stop, ok := sess.lastSent()
	if !ok || stop.messageID != bcproto.MsgPreviewStop || stop.handle != sent.handle {
		t.Fatalf("expected PreviewStop on handle %d, got %+v", sent.handle, stop)
	}
}

func TestUnmatchedResponseIsDroppedNotPanicking(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message, 1)
	r := New(sess, incoming, Config{})

	incoming <- &bcproto.Message{MessageID: bcproto.MsgKeepAlive, Handle: 7, Status: bcproto.StatusOK}
	time.Sleep(10 * time.Millisecond)
	_ = r
}

func TestSessionTeardownFailsPendingAwaiters(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message)
	r := New(sess, incoming, Config{})

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Request(context.Background(), bcproto.MsgLogin, nil, nil)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	close(incoming)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrSessionEnded) {
			t.Fatalf("got %v, want ErrSessionEnded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Request did not unblock on session teardown")
	}
}

func TestSubscribeAfterCloseReturnsErrClosed(t *testing.T) {
	sess := &fakeSender{}
	incoming := make(chan *bcproto.Message)
	r := New(sess, incoming, Config{})
	close(incoming)
	time.Sleep(10 * time.Millisecond)

	if _, err := r.Subscribe(33, 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
	if _, err := r.Request(context.Background(), bcproto.MsgLogin, nil, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}
