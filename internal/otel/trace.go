package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on every Update, written once at init and by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("QKART_TRACE") != "")
}

// TraceEnabled reports whether QKART_TRACE is set. When true the UI emits a
// trace event for every message it receives.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
