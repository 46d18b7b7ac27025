package consolehandler

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KarpelesLab/ringbuf"
	"go.uber.org/multierr"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler"
)

// Console is a console device
type Console interface {
	handler.Sink
	handler.Closer
	handler.StatsProvider
	handler.StateHolder
	// Dmesg writes the scrollback to w. It writes nothing when
	// scrollback is disabled.
	Dmesg(w io.Writer) (int64, error)
	// Err returns the most recent device write error, or nil
	Err() error
}

// ConsoleConfig holds configuration for console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Async enables the queued transmit path (default: false)
	Async bool
	// BufferSize is the size of the async queue in bytes (default: 1024)
	BufferSize int
	// OverflowPolicy defines what a full async queue does (default: DropNewest)
	OverflowPolicy handler.OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// Scrollback is the number of bytes of console history to keep for
	// Dmesg (default: 0, disabled)
	Scrollback int
	// State is the shared fatal-error state (default: a private state
	// that never panics)
	State *core.State
}

// applyConsoleDefaults fills in zero-value fields with defaults.
func applyConsoleDefaults(cfg *ConsoleConfig) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
	if cfg.State == nil {
		cfg.State = new(core.State)
	}
}

// NewConsoleHandler creates a new console.
// Returns a SyncConsole when Async is false, or an AsyncConsole when Async
// is true.
func NewConsoleHandler(cfg ConsoleConfig) (Console, error) {
	applyConsoleDefaults(&cfg)
	if cfg.Async {
		h, err := newAsyncConsole(cfg)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	h, err := newSyncConsole(cfg)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// consoleBase contains shared fields and methods for consoles.
type consoleBase struct {
	writer  io.Writer
	state   *core.State
	stats   *handler.Stats
	mu      sync.Mutex // serializes writes to writer and scroll
	scroll  *ringbuf.Writer
	closed  chan struct{}
	lastErr atomic.Pointer[error]
}

// init fills b in place from cfg.
func (b *consoleBase) init(cfg ConsoleConfig) error {
	b.writer = cfg.Writer
	b.state = cfg.State
	b.stats = handler.NewStats()
	b.closed = make(chan struct{})
	if cfg.Scrollback > 0 {
		scroll, err := ringbuf.New(int64(cfg.Scrollback))
		if err != nil {
			return err
		}
		b.scroll = scroll
	}
	return nil
}

// write delivers p to the device, honoring the fatal-error state.
func (b *consoleBase) write(p []byte) {
	if b.state.Panicking() {
		if b.state.Halted() {
			b.stats.IncrementDropped()
			return
		}
		b.emit(p)
		return
	}

	b.mu.Lock()
	b.emit(p)
	b.mu.Unlock()
}

// emit writes p to the writer and the scrollback. Caller holds mu unless
// panicking. A failed or short device write is counted and remembered
// for Close.
func (b *consoleBase) emit(p []byte) {
	n, err := b.writer.Write(p)
	if n > 0 {
		b.stats.AddProcessed(n)
	}
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		b.stats.IncrementErrors()
		b.lastErr.Store(&err)
	}
	if b.scroll != nil {
		_, _ = b.scroll.Write(p)
	}
}

// Err returns the most recent device write error, or nil
func (b *consoleBase) Err() error {
	if p := b.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Dmesg writes the scrollback to w
func (b *consoleBase) Dmesg(w io.Writer) (int64, error) {
	if b.scroll == nil {
		return 0, nil
	}
	r := b.scroll.Reader()
	defer r.Close()
	return io.Copy(w, r)
}

// State returns the fatal-error state the console consults
func (b *consoleBase) State() *core.State {
	return b.state
}

// Stats returns a snapshot of the current statistics
func (b *consoleBase) Stats() handler.Snapshot {
	return b.stats.GetSnapshot()
}

// closeDevice releases the scrollback and reports the last device write
// error, if any.
func (b *consoleBase) closeDevice() error {
	err := b.Err()
	if b.scroll != nil {
		err = multierr.Append(err, b.scroll.Close())
	}
	return err
}
