package logger

import (
	"bytes"
	"context"
	"io"
	"log"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler"
	"github.com/philipp01105/klog/handler/consolehandler"
	"github.com/philipp01105/klog/ring"
)

// consoleSink records console bytes. A byte equal to stall blocks the
// caller until release is closed.
type consoleSink struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	stall   byte
	stalled chan struct{}
	release chan struct{}
}

func newConsoleSink() *consoleSink {
	return &consoleSink{stalled: make(chan struct{}), release: make(chan struct{})}
}

func (s *consoleSink) PutByte(c byte) {
	if s.stall != 0 && c == s.stall {
		close(s.stalled)
		<-s.release
	}
	s.mu.Lock()
	s.buf.WriteByte(c)
	s.mu.Unlock()
}

func (s *consoleSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newLogger(t *testing.T, console handler.Sink, halt func()) *Logger {
	t.Helper()
	l, err := NewBuilder().
		WithConsole(console).
		WithCapacity(256).
		WithHalt(halt).
		Build()
	require.NoError(t, err)
	return l
}

func drain(t *testing.T, l *Logger) string {
	t.Helper()
	n := l.Ring().Len()
	if n == 0 {
		return ""
	}
	p := make([]byte, n)
	got, err := l.ReadLog(context.Background(), ring.Buffer(p), n)
	require.NoError(t, err)
	return string(p[:got])
}

// goexitHalt ends the panicking goroutine and signals halted
func goexitHalt(halted chan struct{}) func() {
	return func() {
		close(halted)
		runtime.Goexit()
	}
}

func TestBuilder_Defaults(t *testing.T) {
	l, err := NewBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, ring.DefaultCapacity, l.Ring().Cap())
	assert.Equal(t, core.Normal, l.State().Load())
	assert.Equal(t, handler.ConsoleMode, l.Mode())

	// no console configured: output still reaches the ring
	l.Printf("x")
	assert.Equal(t, "x", drain(t, l))
}

func TestBuilder_BadCapacity(t *testing.T) {
	_, err := NewBuilder().WithCapacity(0).Build()
	assert.ErrorIs(t, err, ring.ErrCapacity)
}

func TestLogger_PrintfReachesConsoleAndRing(t *testing.T) {
	cons := newConsoleSink()
	l := newLogger(t, cons, nil)

	l.Printf("%d %u %x %s %c %%", Int(-5), Uint(5), Uint(255), Str("hi"), Char('A'))

	assert.Equal(t, "-5 5 ff hi A %", cons.String())
	assert.Equal(t, "-5 5 ff hi A %", drain(t, l))
}

func TestLogger_LogfIsSilent(t *testing.T) {
	cons := newConsoleSink()
	l := newLogger(t, cons, nil)

	l.Logf("secret %s\n", StrPtr(nil))
	assert.Empty(t, cons.String(), "log-only output reached the console")
	assert.Equal(t, handler.ConsoleMode, l.Mode(), "mode not restored after Logf")

	l.Printf("visible\n")
	assert.Equal(t, "visible\n", cons.String())
	assert.Equal(t, "secret (null)\nvisible\n", drain(t, l))
}

func TestLogger_Puts(t *testing.T) {
	cons := newConsoleSink()
	l := newLogger(t, cons, nil)

	l.Puts("100% literal %d")
	assert.Equal(t, "100% literal %d", cons.String())
}

func TestLogger_ConcurrentPrintfDoesNotInterleave(t *testing.T) {
	cons := newConsoleSink()
	l := newLogger(t, cons, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Printf("[abcdefgh]")
				l.Logf("<12345678>")
			}
		}()
	}
	wg.Wait()

	out := cons.String()
	require.Len(t, out, 8*20*len("[abcdefgh]"))
	for i := 0; i < len(out); i += len("[abcdefgh]") {
		assert.Equal(t, "[abcdefgh]", out[i:i+len("[abcdefgh]")])
	}
}

func TestLogger_KlogRead(t *testing.T) {
	l := newLogger(t, nil, nil)
	l.Logf("abcdef")

	p := make([]byte, 4)
	assert.Equal(t, 4, l.KlogRead(context.Background(), ring.Buffer(p), 4))
	assert.Equal(t, "abcd", string(p))

	// a fault collapses to -1, and the faulting byte is gone
	us := ring.NewUserSpace(8, 0)
	assert.Equal(t, -1, l.KlogRead(context.Background(), us.At(0), 2))
	assert.Equal(t, 1, l.KlogRead(context.Background(), ring.Buffer(p), 4))
	assert.Equal(t, byte('f'), p[0])

	// so does cancellation of a blocked read
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, -1, l.KlogRead(ctx, ring.Buffer(p), 4))

	// zero max returns zero without blocking
	assert.Equal(t, 0, l.KlogRead(context.Background(), ring.Buffer(p), 0))
}

func TestLogger_Clear(t *testing.T) {
	l := newLogger(t, nil, nil)
	l.Logf("old")
	l.Clear()
	l.Logf("new")
	assert.Equal(t, "new", drain(t, l))
}

func TestLogger_Panic(t *testing.T) {
	cons := newConsoleSink()
	halted := make(chan struct{})
	l := newLogger(t, cons, goexitHalt(halted))

	l.Logf("before\n")
	go l.Panic("boom")

	select {
	case <-halted:
	case <-time.After(time.Second):
		t.Fatal("Panic did not reach the halt")
	}

	assert.Equal(t, "panic: boom\n", cons.String())
	assert.True(t, l.State().Halted())

	// Clear is a no-op from here on
	l.Clear()
	assert.Equal(t, "before\npanic: boom\n", drain(t, l))
}

func TestLogger_PanicWhileOutputLockHeld(t *testing.T) {
	cons := newConsoleSink()
	cons.stall = '~'
	halted := make(chan struct{})
	l := newLogger(t, cons, goexitHalt(halted))

	// a writer stalls inside Printf, holding the output lock
	go l.Printf("~ stuck")
	<-cons.stalled

	go l.Panic("deadlock?")

	select {
	case <-halted:
	case <-time.After(time.Second):
		t.Fatal("panic message blocked behind the output lock")
	}
	assert.Equal(t, "panic: deadlock?\n", cons.String())

	close(cons.release)
}

func TestLogger_PanicDuringLogfStillReachesConsole(t *testing.T) {
	cons := newConsoleSink()
	halted := make(chan struct{})
	l := newLogger(t, cons, goexitHalt(halted))

	// a log-only call is in flight with the shared mode set to log-only
	l.mu.Lock()
	l.router.SetMode(handler.LogOnlyMode)

	go l.Panic("mode")
	<-halted

	assert.Equal(t, "panic: mode\n", cons.String())
	l.router.SetMode(handler.ConsoleMode)
	l.mu.Unlock()
}

// faultSink raises a Go panic on the first byte it is given
type faultSink struct{}

func (faultSink) PutByte(byte) {
	panic("console driver bug")
}

func TestLogger_SinkPanicReleasesOutputLock(t *testing.T) {
	l := newLogger(t, faultSink{}, nil)

	assert.Panics(t, func() { l.Printf("x") })
	assert.Equal(t, handler.ConsoleMode, l.Mode())

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Logf("after\n")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("output lock still held after a sink panic")
	}
	// the console sees a byte before the ring, so the faulting one is lost
	assert.Equal(t, "after\n", drain(t, l))
}

func TestBuilder_AdoptsConsoleState(t *testing.T) {
	cons, err := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{Writer: io.Discard})
	require.NoError(t, err)
	defer cons.Close()

	l, err := NewBuilder().WithConsole(cons).Build()
	require.NoError(t, err)
	assert.Same(t, cons.State(), l.State())
}

func TestBuilder_StateMismatch(t *testing.T) {
	cons, err := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{Writer: io.Discard})
	require.NoError(t, err)
	defer cons.Close()

	_, err = NewBuilder().WithConsole(cons).WithState(new(core.State)).Build()
	assert.ErrorIs(t, err, ErrStateMismatch)
}

// stallWriter blocks a write that starts with stall until release is
// closed; other writes go straight through
type stallWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	stall   byte
	stalled chan struct{}
	release chan struct{}
}

func (w *stallWriter) Write(p []byte) (int, error) {
	if len(p) > 0 && p[0] == w.stall {
		close(w.stalled)
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *stallWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestLogger_PanicWhileConsoleLockHeld(t *testing.T) {
	w := &stallWriter{stall: '~', stalled: make(chan struct{}), release: make(chan struct{})}
	defer close(w.release)

	// no explicit state: the logger shares the console's
	cons, err := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{Writer: w})
	require.NoError(t, err)

	halted := make(chan struct{})
	l, err := NewBuilder().WithConsole(cons).WithHalt(goexitHalt(halted)).Build()
	require.NoError(t, err)

	// the device write stalls with the console lock held
	go l.Printf("~")
	<-w.stalled

	go l.Panic("uart")

	select {
	case <-halted:
	case <-time.After(time.Second):
		t.Fatal("panic message blocked behind the console lock")
	}
	assert.Contains(t, w.String(), "panic: uart\n")
}

func TestLogger_Writer(t *testing.T) {
	cons := newConsoleSink()
	l := newLogger(t, cons, nil)

	std := log.New(l.Writer(), "fs: ", 0)
	std.Printf("mounted %d inodes", 42)
	assert.Empty(t, cons.String())

	_, _ = l.ConsoleWriter().Write([]byte("hello\n"))
	assert.Equal(t, "hello\n", cons.String())

	assert.Equal(t, "fs: mounted 42 inodes\nhello\n", drain(t, l))
}

type closeSink struct {
	handler.Sink
	closed bool
}

func (c *closeSink) Close() error {
	c.closed = true
	return nil
}

func TestLogger_Close(t *testing.T) {
	cs := &closeSink{Sink: handler.Discard}
	l := newLogger(t, cs, nil)
	require.NoError(t, l.Close())
	assert.True(t, cs.closed)

	// a plain sink has nothing to close
	require.NoError(t, newLogger(t, handler.Discard, nil).Close())
}

func BenchmarkLogger_Logf(b *testing.B) {
	l, _ := NewBuilder().Build()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Logf("syscall %d from pid %d\n", Int(i), Int(7))
	}
}

func BenchmarkLogger_Printf(b *testing.B) {
	l, _ := NewBuilder().WithConsole(handler.Discard).Build()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Printf("syscall %d from pid %d\n", Int(i), Int(7))
	}
}
