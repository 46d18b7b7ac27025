// Package handler provides the byte sinks that formatted kernel output is
// delivered to, and the Router that decides which of them see each byte.
//
// A Sink accepts one byte at a time. Two sinks matter to the log
// facility: the console, which is what an operator watching the
// machine sees, and the log ring, which keeps a copy for a later
// reader. The Router holds a process-wide Mode:
//
//   - ConsoleMode delivers every byte to the console and the ring.
//   - LogOnlyMode delivers to the ring only.
//
// Duplicating console output into the ring is the Router's job, never
// the console's, so any Sink can serve as a console device.
//
// MultiSink fans a byte out to several console devices (a UART and a
// scrollback buffer, say). Sinks that queue bytes apply an
// OverflowPolicy when full: DropNewest, DropOldest, or Block with a
// timeout. Delivery, drop and block counts are kept in a Stats value
// and exposed as a Snapshot for monitoring.
package handler
