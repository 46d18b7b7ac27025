// Package ring implements the kernel log ring: a fixed-capacity byte
// buffer addressed by two unbounded cursors.
//
// The write cursor counts every byte ever stored and the read cursor
// every byte consumed or dropped; the physical slot of cursor x is
// x % capacity. An empty ring is w == r, and a full ring is
// w - r == capacity, so no separate full flag is kept. A write to a
// full ring raises r to w - capacity, silently discarding the oldest
// unread byte. Producers are never blocked or told about the loss.
//
// PutByte is safe from any goroutine. In the normal phase it takes the
// ring mutex and wakes blocked readers. Once the shared core.State
// reports Panicking it skips the mutex entirely: the cursors are
// atomics, so racing writers still move them forward monotonically,
// but a concurrent reader may observe a torn byte. That race is the
// price of letting the panic message through when the faulting
// goroutine already holds the lock.
//
// Read blocks on a sync.Cond tied to the ring until at least one byte
// is available, then copies what is there, up to the requested
// maximum, through a Destination. Context cancellation stands in for
// the per-thread killed flag: it wakes the reader, which returns
// core.ErrCanceled without consuming anything. Only one reader at a
// time is expected.
package ring
