package logger

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/formatter"
	"github.com/philipp01105/klog/handler"
	"github.com/philipp01105/klog/ring"
)

// spinForever is the default halt. It parks the calling goroutine in a
// yield loop, the analogue of a CPU spinning with interrupts off.
func spinForever() {
	for {
		runtime.Gosched()
	}
}

// ErrStateMismatch is returned by Build when the console consults a
// different fatal-error state than the logger
var ErrStateMismatch = errors.New("logger: console does not share the logger state")

// Logger owns the kernel log facility
type Logger struct {
	mu      sync.Mutex // output lock, serializes Printf and Logf
	state   *core.State
	ring    *ring.Ring
	router  *handler.Router
	console handler.Sink
	halt    func()
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	console  handler.Sink
	capacity int
	state    *core.State
	halt     func()
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		capacity: ring.DefaultCapacity,
		halt:     spinForever,
	}
}

// WithConsole sets the console sink. Without one, console output is
// discarded and only the ring sees it.
//
// A console that reports its own state (handler.StateHolder) must share
// the logger's, or it keeps taking its lock during Panic. Build adopts
// the console's state when WithState was not called and fails with
// ErrStateMismatch when the two differ. Sinks that wrap a console, such
// as handler.MultiSink, hide its state; give them the same state by hand.
func (b *Builder) WithConsole(s handler.Sink) *Builder {
	b.console = s
	return b
}

// WithCapacity sets the ring capacity in bytes
func (b *Builder) WithCapacity(n int) *Builder {
	b.capacity = n
	return b
}

// WithState sets the shared fatal-error state. Pass the same state to
// the console so both bypass their locks together.
func (b *Builder) WithState(s *core.State) *Builder {
	b.state = s
	return b
}

// WithHalt replaces what Panic does after the message is out. fn must
// not return; tests typically end the goroutine with runtime.Goexit.
func (b *Builder) WithHalt(fn func()) *Builder {
	if fn != nil {
		b.halt = fn
	}
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() (*Logger, error) {
	state := b.state
	if sh, ok := b.console.(handler.StateHolder); ok && sh.State() != nil {
		switch {
		case state == nil:
			state = sh.State()
		case state != sh.State():
			return nil, ErrStateMismatch
		}
	}
	if state == nil {
		state = new(core.State)
	}

	r, err := ring.New(b.capacity, state)
	if err != nil {
		return nil, err
	}

	console := b.console
	if console == nil {
		console = handler.Discard
	}

	return &Logger{
		state:   state,
		ring:    r,
		router:  handler.NewRouter(console, r),
		console: console,
		halt:    b.halt,
	}, nil
}

// Printf formats to the console and the ring
func (l *Logger) Printf(template string, args ...core.Arg) {
	l.print(handler.ConsoleMode, template, args)
}

// Logf formats to the ring only
func (l *Logger) Logf(template string, args ...core.Arg) {
	l.print(handler.LogOnlyMode, template, args)
}

// Puts writes s verbatim to the console and the ring
func (l *Logger) Puts(s string) {
	l.print(handler.ConsoleMode, "%s", []core.Arg{core.Str(s)})
}

func (l *Logger) print(mode handler.Mode, template string, args []core.Arg) {
	if l.state.Panicking() {
		formatter.Format(l.router.Fixed(mode), template, args...)
		return
	}

	l.mu.Lock()
	defer func() {
		l.router.SetMode(handler.ConsoleMode)
		l.mu.Unlock()
	}()
	l.router.SetMode(mode)
	formatter.Format(l.router, template, args...)
}

// Panic prints "panic: " and msg to the console and the ring, bypassing
// every lock, then halts the calling goroutine. It never returns.
func (l *Logger) Panic(msg string) {
	l.state.BeginPanic()
	l.Printf("panic: ")
	l.Printf("%s\n", core.Str(msg))
	l.state.Halt()
	l.halt()
	spinForever()
}

// ReadLog blocks until the ring has data, then copies up to n bytes into
// dst. See ring.Ring.Read for the failure semantics.
func (l *Logger) ReadLog(ctx context.Context, dst ring.Destination, n int) (int, error) {
	return l.ring.Read(ctx, dst, n)
}

// KlogRead is the system-call face of ReadLog: it returns the number of
// bytes copied, or -1 if the copy faulted or ctx was canceled.
func (l *Logger) KlogRead(ctx context.Context, dst ring.Destination, n int) int {
	got, err := l.ring.Read(ctx, dst, n)
	if err != nil {
		return -1
	}
	return got
}

// Clear drops all unread log data. It does nothing during a panic.
func (l *Logger) Clear() {
	l.ring.Clear()
}

// State returns the shared fatal-error state
func (l *Logger) State() *core.State {
	return l.state
}

// Ring returns the log ring
func (l *Logger) Ring() *ring.Ring {
	return l.ring
}

// Mode returns the current routing mode
func (l *Logger) Mode() handler.Mode {
	return l.router.Mode()
}

// Close closes the console if it owns resources
func (l *Logger) Close() error {
	if c, ok := l.console.(handler.Closer); ok {
		return c.Close()
	}
	return nil
}
