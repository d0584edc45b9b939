package router

import (
	"encoding/xml"

	"github.com/bcbridge/bc/pkg/bcproto"
)

// Subscription is a live push-event registration from Subscribe. Close
// drops the sink; it sends no wire message, since plain push events
// (e.g. alarm events) have no corresponding stop request.
type Subscription struct {
	router *Router
	key    subKey
	sink   *sink
}

// Messages returns the channel of fanned-out events.
func (s *Subscription) Messages() <-chan *bcproto.Message {
	return s.sink.ch
}

// Close unregisters the subscription.
func (s *Subscription) Close() {
	s.router.unsubscribe(s.key, s.sink)
}

// previewRequest is the Preview extension body (spec.md Section 4.6,
// "Video start").
type previewRequest struct {
	XMLName    xml.Name `xml:"Preview"`
	ChannelID  int      `xml:"channelId"`
	Handle     int      `xml:"handle"`
	StreamType string   `xml:"streamType"`
}

// PreviewSubscription is a live message-id-3 video stream. Close sends
// the id-4 stop message for this handle before dropping the sink
// (spec.md Section 4.6/8 scenario 5).
type PreviewSubscription struct {
	router *Router
	key    subKey
	sink   *sink
	handle uint8
}

// Messages returns the channel of binary id-3 payloads for this stream.
func (p *PreviewSubscription) Messages() <-chan *bcproto.Message {
	return p.sink.ch
}

// Close stops the stream: unregisters the sink and sends id-4 with the
// same handle (spec.md Section 4.6).
func (p *PreviewSubscription) Close() error {
	p.router.unsubscribe(p.key, p.sink)
	return p.router.sess.Send(bcproto.MsgPreviewStop, p.handle, nil, nil)
}

// StreamTypeMain and StreamTypeSub are the two values spec.md Section 4.6
// names for Preview's streamType field.
const (
	StreamTypeMain = "mainStream"
	StreamTypeSub  = "subStream"
)

// StartPreview allocates a handle, sends message-id 3 with a Preview
// extension requesting channelID at the given stream type, and returns a
// subscription over the resulting binary stream
// (spec.md Section 4.6, "Video start").
func (r *Router) StartPreview(channelID int, streamType string, bufSize int) (*PreviewSubscription, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	handle := r.sess.NextHandle()
	key := subKey{bcproto.MsgPreview, handle}
	s := &sink{ch: make(chan *bcproto.Message, bufSize)}
	r.subscribers[key] = append(r.subscribers[key], s)
	r.mu.Unlock()

	extension, err := xml.Marshal(previewRequest{
		ChannelID:  channelID,
		Handle:     int(handle),
		StreamType: streamType,
	})
	if err != nil {
		r.unsubscribe(key, s)
		return nil, err
	}

	if err := r.sess.Send(bcproto.MsgPreview, handle, extension, nil); err != nil {
		r.unsubscribe(key, s)
		return nil, err
	}

	return &PreviewSubscription{router: r, key: key, sink: s, handle: handle}, nil
}
