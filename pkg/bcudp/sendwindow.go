package bcudp

import (
	"sync"
	"time"
)

// sendEntry is a Data packet awaiting acknowledgement, keyed by packet id
// (spec.md Section 4.3, "Retransmission"). Unlike the teacher's exchange
// table, BC has no backoff curve: every unacked packet is retried on the
// same fixed interval until acked or the connection is closed.
type sendEntry struct {
	packetID uint32
	payload  []byte
	timer    *time.Timer
	sent     int
}

func (e *sendEntry) stop() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// SendWindow tracks outstanding Data packets for one direction of a BcUDP
// connection and drives their retransmission until acked.
type SendWindow struct {
	mu       sync.Mutex
	entries  map[uint32]*sendEntry
	interval time.Duration
	sendFn   func(packetID uint32, payload []byte)
}

// NewSendWindow creates a send window that retransmits unacked packets
// every interval by calling sendFn.
func NewSendWindow(interval time.Duration, sendFn func(packetID uint32, payload []byte)) *SendWindow {
	return &SendWindow{
		entries:  make(map[uint32]*sendEntry),
		interval: interval,
		sendFn:   sendFn,
	}
}

// Add registers packetID as sent and arms its retransmit timer.
func (w *SendWindow) Add(packetID uint32, payload []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry := &sendEntry{packetID: packetID, payload: payload, sent: 1}
	entry.timer = time.AfterFunc(w.interval, func() { w.retransmit(packetID) })
	w.entries[packetID] = entry
}

func (w *SendWindow) retransmit(packetID uint32) {
	w.mu.Lock()
	entry, ok := w.entries[packetID]
	if !ok {
		w.mu.Unlock()
		return
	}
	entry.sent++
	entry.timer = time.AfterFunc(w.interval, func() { w.retransmit(packetID) })
	payload := entry.payload
	w.mu.Unlock()

	w.sendFn(packetID, payload)
}

// AckThrough cancels every entry with a packet id <= lastContiguous, the
// effect of a truth table reporting that prefix fully received
// (spec.md Section 4.3, "Ack").
func (w *SendWindow) AckThrough(lastContiguous uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, entry := range w.entries {
		if id <= lastContiguous {
			entry.stop()
			delete(w.entries, id)
		}
	}
}

// AckTruthTable cancels entries the peer's truth table marks received,
// beyond the contiguous prefix already handled by AckThrough.
func (w *SendWindow) AckTruthTable(lastContiguous uint32, table []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, flag := range table {
		if flag == 0 {
			continue
		}
		id := lastContiguous + 1 + uint32(i)
		if entry, ok := w.entries[id]; ok {
			entry.stop()
			delete(w.entries, id)
		}
	}
}

// Pending reports the number of unacked packets.
func (w *SendWindow) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Close cancels every pending retransmit timer. Called on session teardown.
func (w *SendWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, entry := range w.entries {
		entry.stop()
		delete(w.entries, id)
	}
}
