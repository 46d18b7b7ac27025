// Package core defines the shared types used across the klog packages.
//
// It provides the Arg type, a closed tagged variant that carries one
// formatter argument (signed, unsigned, pointer, character or string),
// and the State type, the one-way Normal -> Panicking -> Halted switch
// that every lock-taking path consults before acquiring its lock.
//
// Args are plain values built by the caller before a formatting call.
// Numeric kinds keep their bits in Int64 or Uint64 so that a directive
// applied to a mismatched argument still renders something meaningful,
// the way a C varargs engine would reinterpret the word on the stack.
//
// State is stored in an atomic word. It is set at most twice per
// process lifetime and never reset, so readers only need a relaxed
// load to observe it.
package core
