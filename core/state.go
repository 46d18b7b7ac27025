package core

import "sync/atomic"

// Phase is one step of the fatal-error sequence
type Phase int32

const (
	// Normal is the default phase, all locks are honored
	Normal Phase = iota
	// Panicking disables the output and ring locks so the panic
	// message can be emitted even if a lock is already held
	Panicking
	// Halted is terminal; the faulting goroutine never returns
	Halted
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Normal:
		return "normal"
	case Panicking:
		return "panicking"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// State holds the process-wide fatal-error phase. The zero value is Normal.
type State struct {
	phase atomic.Int32
}

// Load returns the current phase
func (s *State) Load() Phase {
	return Phase(s.phase.Load())
}

// Panicking reports whether lock bypass is in effect (Panicking or Halted)
func (s *State) Panicking() bool {
	return s.phase.Load() >= int32(Panicking)
}

// Halted reports whether the fatal-error sequence has completed
func (s *State) Halted() bool {
	return s.phase.Load() == int32(Halted)
}

// BeginPanic moves Normal to Panicking. It returns false if another
// caller got there first; the phase never moves backwards.
func (s *State) BeginPanic() bool {
	return s.phase.CompareAndSwap(int32(Normal), int32(Panicking))
}

// Halt moves the state to Halted
func (s *State) Halt() {
	s.phase.Store(int32(Halted))
}
