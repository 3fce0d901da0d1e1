// Package search turns query keystrokes into catalog lookups.
//
// A Debouncer lives inside the Bubble Tea model and is only touched from
// Update, so it needs no locking. It owns two pieces of state:
//
//   - the pending slot: at most one armed timer, replaced on every keystroke;
//   - the lookup sequence: every dispatched lookup gets the next number and
//     only the response carrying the latest number is accepted.
package search

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// TimerFired is delivered to Update when an armed timer elapses.
type TimerFired struct {
	Token uint64
}

// Lookup is a dispatched remote call.
type Lookup struct {
	Seq   uint64
	Query string
}

type pending struct {
	token  uint64
	query  string
	cancel context.CancelFunc
}

// Debouncer coalesces query changes into lookups.
type Debouncer struct {
	delay   time.Duration
	tokens  uint64
	pending *pending
	seq     uint64
}

// NewDebouncer returns a Debouncer with the given quiet period.
// Non-positive delays fall back to DefaultDelay.
func NewDebouncer(delay time.Duration) Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// QueryChanged cancels any armed timer and arms a new one for text.
// The returned command waits out the delay and yields TimerFired, or yields
// nothing if the timer is cancelled first.
func (d *Debouncer) QueryChanged(text string) tea.Cmd {
	d.Cancel()

	d.tokens++
	ctx, cancel := context.WithCancel(context.Background())
	d.pending = &pending{token: d.tokens, query: text, cancel: cancel}

	token, delay := d.tokens, d.delay
	return func() tea.Msg {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return TimerFired{Token: token}
		case <-ctx.Done():
			return nil
		}
	}
}

// Cancel discards the armed timer, if any. Cancelling after the timer has
// fired is a no-op.
func (d *Debouncer) Cancel() bool {
	if d.pending == nil {
		return false
	}
	d.pending.cancel()
	d.pending = nil
	return true
}

// Pending returns the query captured by the armed timer.
func (d *Debouncer) Pending() (string, bool) {
	if d.pending == nil {
		return "", false
	}
	return d.pending.query, true
}

// Fire consumes a TimerFired message. It reports false for timers that were
// cancelled or replaced; otherwise the pending slot is cleared and the
// lookup to dispatch is returned.
func (d *Debouncer) Fire(msg TimerFired) (Lookup, bool) {
	if d.pending == nil || d.pending.token != msg.Token {
		return Lookup{}, false
	}
	query := d.pending.query
	d.pending.cancel()
	d.pending = nil
	return d.Dispatch(query), true
}

// Dispatch numbers a lookup issued without a timer, such as the initial
// catalog load. It supersedes every earlier lookup.
func (d *Debouncer) Dispatch(query string) Lookup {
	d.seq++
	return Lookup{Seq: d.seq, Query: query}
}

// Accept reports whether a response for seq is authoritative, i.e. no newer
// lookup has been dispatched since.
func (d *Debouncer) Accept(seq uint64) bool {
	return seq != 0 && seq == d.seq
}

// Latest returns the sequence number of the newest dispatched lookup.
func (d *Debouncer) Latest() uint64 {
	return d.seq
}
