package klogd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/klog/logger"
	"github.com/philipp01105/klog/ring"
)

var (
	// ErrReadFailed is returned when the log read call reports failure
	ErrReadFailed = errors.New("klogd: klogread failed")
	// ErrShortWrite is returned when the output does not take every byte
	ErrShortWrite = errors.New("klogd: write failed")
)

// Source is the kernel log read call. It blocks until at least one byte
// is available and returns the number copied into dst, or a negative
// value on failure.
type Source interface {
	KlogRead(ctx context.Context, dst []byte) int
}

// SourceFunc adapts an ordinary function to Source
type SourceFunc func(ctx context.Context, dst []byte) int

// KlogRead calls f(ctx, dst)
func (f SourceFunc) KlogRead(ctx context.Context, dst []byte) int {
	return f(ctx, dst)
}

// FromLogger reads from the ring owned by l
func FromLogger(l *logger.Logger) Source {
	return SourceFunc(func(ctx context.Context, dst []byte) int {
		return l.KlogRead(ctx, ring.Buffer(dst), len(dst))
	})
}

// Config holds klogd configuration
type Config struct {
	// ReadSize is the size of the read buffer (default: 512)
	ReadSize int
	// Pause is the wait after each successful write (default: 50ms,
	// negative disables)
	Pause time.Duration
	// Output receives the log bytes (default: os.Stdout)
	Output io.Writer
	// Logger receives the daemon's own diagnostics (default: no-op)
	Logger *zap.Logger
}

func applyDefaults(cfg *Config) {
	if cfg.ReadSize <= 0 {
		cfg.ReadSize = 512
	}
	if cfg.Pause == 0 {
		cfg.Pause = 50 * time.Millisecond
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// Run drains src into cfg.Output until ctx is done or a read or write
// fails. It returns ctx.Err() on shutdown.
func Run(ctx context.Context, src Source, cfg Config) error {
	applyDefaults(&cfg)
	log := cfg.Logger.Named("klogd")
	buf := make([]byte, cfg.ReadSize)

	var pause *time.Timer
	if cfg.Pause > 0 {
		pause = time.NewTimer(cfg.Pause)
		if !pause.Stop() {
			<-pause.C
		}
		defer pause.Stop()
	}

	log.Debug("started", zap.Int("read_size", cfg.ReadSize), zap.Duration("pause", cfg.Pause))

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			log.Debug("stopped", zap.Int64("bytes", total))
			return err
		}

		n := src.KlogRead(ctx, buf)
		if n < 0 {
			if err := ctx.Err(); err != nil {
				log.Debug("stopped", zap.Int64("bytes", total))
				return err
			}
			log.Error("klogread failed", zap.Int("result", n))
			return ErrReadFailed
		}
		if n == 0 {
			continue
		}

		w, err := cfg.Output.Write(buf[:n])
		if err == nil && w != n {
			err = io.ErrShortWrite
		}
		if err != nil {
			log.Error("write failed", zap.Int("want", n), zap.Int("wrote", w), zap.Error(err))
			return fmt.Errorf("%w: %w", ErrShortWrite, err)
		}
		total += int64(n)

		if pause == nil {
			continue
		}
		pause.Reset(cfg.Pause)
		select {
		case <-ctx.Done():
		case <-pause.C:
		}
	}
}
