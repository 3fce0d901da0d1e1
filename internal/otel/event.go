// Package otel records structured events for QKart.
//
// Events are typed structs serialized as JSONL lines. The Logger writes them
// asynchronously through a buffered channel and a drain goroutine; an
// optional RingBuffer keeps the recent ones for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level is event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind names an event. Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Initial catalog load
	KindFetchStart    EventKind = "catalog.fetch.start"
	KindFetchComplete EventKind = "catalog.fetch.complete"
	KindFetchError    EventKind = "catalog.fetch.error"

	// Incremental search
	KindSearchArm      EventKind = "search.arm"
	KindSearchCancel   EventKind = "search.cancel"
	KindSearchStart    EventKind = "search.start"
	KindSearchComplete EventKind = "search.complete"
	KindSearchNotFound EventKind = "search.not_found"
	KindSearchError    EventKind = "search.error"
	KindSearchStale    EventKind = "search.stale"

	// Notifications
	KindNotify EventKind = "notify.show"

	// Reference catalog service
	KindServerRequest EventKind = "server.request"
	KindStoreError    EventKind = "store.error"

	// UI
	KindKeyPress EventKind = "ui.key"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Message tracing (QKART_TRACE)
	KindMsgReceived EventKind = "trace.msg_received"
	KindMsgHandled  EventKind = "trace.msg_handled"
)

// Event is one observability record. Only Kind is required; Time and
// SessionID are filled in by the Logger.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "ui", "catalog", "server", "main"
	SessionID string         `json:"session_id,omitempty"`
	Seq       uint64         `json:"seq,omitempty"` // lookup sequence number
	Query     string         `json:"query,omitempty"`
	Status    int            `json:"status,omitempty"` // HTTP status
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	p := plain(e)
	if e.Dur > 0 {
		p.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(p)
}
