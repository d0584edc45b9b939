// Package router correlates BC responses to their requests and fans
// server-originated events out to subscribers (spec.md Section 4.7). It
// sits downstream of pkg/session: Session decodes frames, Router decides
// whether a decoded Message completes a pending Request or belongs to a
// streaming subscription.
package router

import (
	"context"
	"sync"

	"github.com/pion/logging"

	"github.com/bcbridge/bc/pkg/bcproto"
)

// sender is the subset of session.Session the router needs: allocate a
// handle and write an encoded message. Declared locally so this package
// doesn't import pkg/session just to name a type.
type sender interface {
	Send(messageID uint32, handle uint8, extension, payload []byte) error
	NextHandle() uint8
}

type subKey struct {
	messageID uint32
	handle    uint8
}

// Router dispatches decoded messages from one session. One Router per
// Session.
type Router struct {
	sess sender
	log  logging.LeveledLogger

	mu          sync.Mutex
	pending     map[uint8]chan *bcproto.Message
	subscribers map[subKey][]*sink
	closed      bool
	closeCh     chan struct{}

	wg sync.WaitGroup
}

type sink struct {
	ch chan *bcproto.Message
}

// Config configures a Router.
type Config struct {
	LoggerFactory logging.LoggerFactory
}

// New creates a Router and starts consuming incoming. incoming is
// session.Session.Incoming(); the router's dispatch loop runs until that
// channel closes, at which point every pending Request fails with
// ErrSessionEnded and every subscription's Messages channel is closed
// (spec.md Section 4.7).
func New(sess sender, incoming <-chan *bcproto.Message, cfg Config) *Router {
	r := &Router{
		sess:        sess,
		pending:     make(map[uint8]chan *bcproto.Message),
		subscribers: make(map[subKey][]*sink),
		closeCh:     make(chan struct{}),
	}
	if cfg.LoggerFactory != nil {
		r.log = cfg.LoggerFactory.NewLogger("router")
	}
	r.wg.Add(1)
	go r.dispatchLoop(incoming)
	return r
}

func (r *Router) dispatchLoop(incoming <-chan *bcproto.Message) {
	defer r.wg.Done()
	for msg := range incoming {
		r.dispatch(msg)
	}
	r.shutdown()
}

// dispatch implements spec.md Section 4.7's routing rule: an exact
// (messageID, handle) subscriber match wins first (active Preview
// streams reuse the same non-zero handle for every delivery); otherwise
// handle 0 falls to messageID-keyed push subscribers; otherwise a
// non-zero handle completes a pending awaiter; anything left over is an
// unmatched response and is logged and dropped.
func (r *Router) dispatch(msg *bcproto.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sinks, ok := r.subscribers[subKey{msg.MessageID, msg.Handle}]; ok {
		r.fanOut(sinks, msg)
		return
	}
	if msg.Handle == 0 {
		if sinks, ok := r.subscribers[subKey{msg.MessageID, 0}]; ok {
			r.fanOut(sinks, msg)
			return
		}
		if r.log != nil {
			r.log.Debugf("router: unmatched event message-id %d, dropped", msg.MessageID)
		}
		return
	}

	ch, ok := r.pending[msg.Handle]
	if !ok {
		if r.log != nil {
			r.log.Debugf("router: unmatched response handle %d, dropped", msg.Handle)
		}
		return
	}
	delete(r.pending, msg.Handle)
	select {
	case ch <- msg:
	default:
	}
}

func (r *Router) fanOut(sinks []*sink, msg *bcproto.Message) {
	for _, s := range sinks {
		select {
		case s.ch <- msg:
		default:
			if r.log != nil {
				r.log.Warnf("router: subscriber sink full for message-id %d, dropped", msg.MessageID)
			}
		}
	}
}

func (r *Router) shutdown() {
	r.mu.Lock()
	r.closed = true
	pending := r.pending
	r.pending = make(map[uint8]chan *bcproto.Message)
	subs := r.subscribers
	r.subscribers = make(map[subKey][]*sink)
	r.mu.Unlock()

	for _, ch := range pending {
		close(ch)
	}
	for _, sinks := range subs {
		for _, s := range sinks {
			close(s.ch)
		}
	}
	close(r.closeCh)
}

// Request allocates a handle, sends messageID with it, and blocks until
// a matching response arrives, ctx is cancelled, or the session ends.
func (r *Router) Request(ctx context.Context, messageID uint32, extension, payload []byte) (*bcproto.Message, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	handle := r.sess.NextHandle()
	ch := make(chan *bcproto.Message, 1)
	r.pending[handle] = ch
	r.mu.Unlock()

	if err := r.sess.Send(messageID, handle, extension, payload); err != nil {
		r.mu.Lock()
		delete(r.pending, handle)
		r.mu.Unlock()
		return nil, err
	}

	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrSessionEnded
		}
		return msg, nil
	case <-ctx.Done():
		r.mu.Lock()
		delete(r.pending, handle)
		r.mu.Unlock()
		return nil, ErrTimedOut
	case <-r.closeCh:
		return nil, ErrSessionEnded
	}
}

// Subscribe registers a sink for push events (handle 0) carrying
// messageID, e.g. alarm events (message-id 33). bufSize bounds the sink
// channel; a full sink drops the newest message rather than blocking the
// dispatch loop (spec.md Section 5, backpressure is the caller's concern
// once messages leave the router).
func (r *Router) Subscribe(messageID uint32, bufSize int) (*Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	key := subKey{messageID, 0}
	s := &sink{ch: make(chan *bcproto.Message, bufSize)}
	r.subscribers[key] = append(r.subscribers[key], s)
	return &Subscription{router: r, key: key, sink: s}, nil
}

func (r *Router) unsubscribe(key subKey, s *sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.subscribers[key]
	for i, other := range list {
		if other == s {
			r.subscribers[key] = append(list[:i], list[i+1:]...)
			break
		}
	}
}
