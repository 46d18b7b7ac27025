package handler

import "github.com/philipp01105/klog/core"

// Sink receives output one byte at a time. PutByte must not fail and
// must not block indefinitely.
type Sink interface {
	PutByte(c byte)
}

// Closer is implemented by sinks that own resources
type Closer interface {
	Close() error
}

// StatsProvider is implemented by sinks that track delivery statistics
type StatsProvider interface {
	Stats() Snapshot
}

// StateHolder is implemented by sinks that consult a fatal-error state
// to decide whether to bypass their own locks
type StateHolder interface {
	State() *core.State
}

// SinkFunc adapts an ordinary function to Sink
type SinkFunc func(c byte)

// PutByte calls f(c)
func (f SinkFunc) PutByte(c byte) {
	f(c)
}

// Discard is a Sink that drops every byte
var Discard Sink = SinkFunc(func(byte) {})
