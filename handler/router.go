package handler

import "sync/atomic"

// Mode selects where the Router delivers bytes
type Mode uint32

const (
	// ConsoleMode delivers to the console and the log
	ConsoleMode Mode = iota
	// LogOnlyMode delivers to the log only
	LogOnlyMode
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ConsoleMode:
		return "console"
	case LogOnlyMode:
		return "log-only"
	default:
		return "unknown"
	}
}

// Router is the single decision point between formatted output and its
// sinks. The mode is meant to be changed under the caller's output lock;
// it is stored atomically so the lock-free panic path can read it too.
type Router struct {
	console Sink
	log     Sink
	mode    atomic.Uint32
}

// NewRouter creates a router in ConsoleMode. A nil sink is replaced by
// Discard.
func NewRouter(console, log Sink) *Router {
	if console == nil {
		console = Discard
	}
	if log == nil {
		log = Discard
	}
	return &Router{console: console, log: log}
}

// SetMode sets the routing mode
func (r *Router) SetMode(m Mode) {
	r.mode.Store(uint32(m))
}

// Mode returns the routing mode
func (r *Router) Mode() Mode {
	return Mode(r.mode.Load())
}

// PutByte routes c according to the current mode
func (r *Router) PutByte(c byte) {
	if Mode(r.mode.Load()) == LogOnlyMode {
		r.log.PutByte(c)
		return
	}
	r.console.PutByte(c)
	r.log.PutByte(c)
}

// Console returns the console sink
func (r *Router) Console() Sink {
	return r.console
}

// Fixed returns a sink that routes by m regardless of the shared mode.
// The lock-free panic path uses it so a racing log-only call cannot
// divert the panic message away from the console.
func (r *Router) Fixed(m Mode) Sink {
	return fixedRoute{r: r, mode: m}
}

type fixedRoute struct {
	r    *Router
	mode Mode
}

func (f fixedRoute) PutByte(c byte) {
	if f.mode == LogOnlyMode {
		f.r.log.PutByte(c)
		return
	}
	f.r.console.PutByte(c)
	f.r.log.PutByte(c)
}
