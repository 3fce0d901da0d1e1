package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize is the capacity used when none is given.
const DefaultRingSize = 1024

// RingBuffer keeps the most recent events in a fixed-size circular buffer.
// Safe for concurrent use.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // slot for the next Push
	count int // valid entries, 0..len(buf)
}

// NewRingBuffer creates a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{buf: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full. Extra is cloned so
// later mutation by the caller does not leak into the ring.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	r.buf[r.next] = e
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

// Snapshot returns all buffered events, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(r.count)
}

// Last returns the n newest events, oldest first. n <= 0 yields nil.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(min(n, r.count))
}

// tail copies the n newest events in order. Caller holds r.mu.
func (r *RingBuffer) tail(n int) []Event {
	if n == 0 {
		return nil
	}
	size := len(r.buf)
	out := make([]Event, n)
	start := (r.next - n + size) % size
	if start+n <= size {
		copy(out, r.buf[start:start+n])
	} else {
		k := copy(out, r.buf[start:])
		copy(out[k:], r.buf[:n-k])
	}
	return out
}

// Len is the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap is the ring capacity.
func (r *RingBuffer) Cap() int {
	return len(r.buf)
}

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[EventKind]int)
	for _, e := range r.tail(r.count) {
		counts[e.Kind]++
	}
	return counts
}
