package ring

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/klog/core"
)

// DefaultCapacity is the ring size used when none is configured
const DefaultCapacity = 4096

// ErrCapacity is returned by New for a non-positive capacity
var ErrCapacity = errors.New("ring: capacity must be positive")

// Ring is the kernel log ring buffer
type Ring struct {
	mu    sync.Mutex
	cond  sync.Cond
	buf   []byte
	size  uint64
	r     atomic.Uint64 // read cursor
	w     atomic.Uint64 // write cursor
	state *core.State
}

// New creates a ring of the given capacity. A nil state is replaced by a
// private one that never leaves the normal phase.
func New(capacity int, state *core.State) (*Ring, error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	if state == nil {
		state = new(core.State)
	}
	r := &Ring{
		buf:   make([]byte, capacity),
		size:  uint64(capacity),
		state: state,
	}
	r.cond.L = &r.mu
	return r, nil
}

// PutByte appends one byte, dropping the oldest unread byte if the ring
// is full. It never fails and never waits for a reader.
func (r *Ring) PutByte(c byte) {
	if r.state.Panicking() {
		// Lock-free and intentionally racy, see package doc.
		r.put(c)
		r.cond.Broadcast()
		return
	}

	r.mu.Lock()
	r.put(c)
	r.cond.Broadcast()
	r.mu.Unlock()
}

// Write appends p under a single lock acquisition. It implements io.Writer
// and always reports len(p) bytes written.
func (r *Ring) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.state.Panicking() {
		for _, c := range p {
			r.put(c)
		}
		r.cond.Broadcast()
		return len(p), nil
	}

	r.mu.Lock()
	for _, c := range p {
		r.put(c)
	}
	r.cond.Broadcast()
	r.mu.Unlock()
	return len(p), nil
}

// put stores c at the write cursor and applies drop-oldest. Cursor
// updates are atomic so that unlocked writers during a panic cannot move
// either cursor backwards.
func (r *Ring) put(c byte) {
	w := r.w.Add(1) - 1
	r.buf[w%r.size] = c

	if w+1 <= r.size {
		return
	}
	floor := w + 1 - r.size
	for {
		rd := r.r.Load()
		if rd >= floor || r.r.CompareAndSwap(rd, floor) {
			return
		}
	}
}

// Read blocks until the ring holds at least one unread byte, then copies
// up to n available bytes into dst and returns how many were copied. It
// never waits for n bytes to accumulate. A non-positive n returns 0
// immediately.
//
// If ctx is done while waiting, Read returns core.ErrCanceled and the
// cursors are untouched. If dst rejects a byte, Read returns
// core.ErrCopyFault; bytes copied before the fault stay consumed.
func (r *Ring) Read(ctx context.Context, dst Destination, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	stop := context.AfterFunc(ctx, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer stop()

	r.mu.Lock()
	defer r.mu.Unlock()

	for r.r.Load() == r.w.Load() {
		if ctx.Err() != nil {
			return 0, core.ErrCanceled
		}
		r.cond.Wait()
	}

	var one [1]byte
	i := 0
	for i < n {
		rd := r.r.Load()
		if rd >= r.w.Load() {
			break
		}
		one[0] = r.buf[rd%r.size]
		if !r.r.CompareAndSwap(rd, rd+1) {
			// a panicking writer dropped rd underneath us
			continue
		}
		if err := dst.CopyOut(i, one[:]); err != nil {
			return i, core.ErrCopyFault
		}
		i++
	}
	return i, nil
}

// ReadInto is Read with a plain kernel slice as destination
func (r *Ring) ReadInto(ctx context.Context, p []byte) (int, error) {
	return r.Read(ctx, Buffer(p), len(p))
}

// Clear discards all unread bytes. It does nothing while panicking so a
// panic message cannot be thrown away by a concurrent clear.
func (r *Ring) Clear() {
	if r.state.Panicking() {
		return
	}
	r.mu.Lock()
	r.r.Store(r.w.Load())
	r.cond.Broadcast()
	r.mu.Unlock()
}

// Len returns the number of unread bytes
func (r *Ring) Len() int {
	rd, w := r.Cursors()
	return int(w - rd)
}

// Cap returns the ring capacity
func (r *Ring) Cap() int {
	return int(r.size)
}

// Cursors returns the read and write cursors
func (r *Ring) Cursors() (rd, w uint64) {
	if r.state.Panicking() {
		return r.r.Load(), r.w.Load()
	}
	r.mu.Lock()
	rd, w = r.r.Load(), r.w.Load()
	r.mu.Unlock()
	return rd, w
}
