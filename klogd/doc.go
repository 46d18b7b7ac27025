// Package klogd is the user-space side of the kernel log: a loop that
// asks for newly available ring bytes, copies them to its output, and
// pauses briefly before asking again.
//
// The loop has no interesting state. A negative read result is fatal to
// the daemon and Run returns ErrReadFailed; a zero result is retried at
// once; anything else is written out in full. The pause only spaces
// out reads so the daemon's output does not interleave line by line
// with other programs sharing the terminal.
package klogd
