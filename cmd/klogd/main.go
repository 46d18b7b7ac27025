// Command klogd boots an in-process kernel log facility, runs a few demo
// producers against it and drains the log ring to stdout the way the
// klogd daemon does.
//
// Console output goes to stderr by default so that it can be told apart
// from the drained log on stdout:
//
//	klogd -config klog.toml -console stderr -dmesg -panic-after 3s
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipp01105/klog/config"
	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler/consolehandler"
	"github.com/philipp01105/klog/klogd"
	"github.com/philipp01105/klog/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
		console    = flag.String("console", "stderr", "console device: stderr, stdout or none")
		dmesg      = flag.Bool("dmesg", false, "dump the console scrollback to stderr on exit")
		panicAfter = flag.Duration("panic-after", 0, "raise a kernel panic after this long (0 disables)")
	)
	flag.Parse()

	if err := run(*configPath, *console, *dmesg, *panicAfter); err != nil {
		fmt.Fprintln(os.Stderr, "klogd:", err)
		os.Exit(1)
	}
}

func run(configPath, consoleName string, dmesg bool, panicAfter time.Duration) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	zl, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck

	out, err := consoleWriter(consoleName)
	if err != nil {
		return err
	}
	if dmesg && cfg.Console.Scrollback == 0 {
		cfg.Console.Scrollback = 64 * 1024
	}

	state := new(core.State)
	con, err := consolehandler.NewConsoleHandler(cfg.ConsoleHandlerConfig(out, state))
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	kl, err := logger.NewBuilder().
		WithConsole(con).
		WithCapacity(cfg.Ring.Capacity).
		WithState(state).
		WithHalt(func() {
			// Park the panicking goroutine until shutdown.
			<-ctx.Done()
			runtime.Goexit()
		}).
		Build()
	if err != nil {
		return err
	}

	zl.Info("booted",
		zap.Int("ring", kl.Ring().Cap()),
		zap.String("console", consoleName),
		zap.Bool("async_console", cfg.Console.Async))

	g.Go(func() error {
		err := klogd.Run(ctx, klogd.FromLogger(kl), cfg.KlogdConfig(os.Stdout, zl))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error { return timer(ctx, kl) })
	g.Go(func() error { return disk(ctx, kl) })
	if panicAfter > 0 {
		g.Go(func() error {
			select {
			case <-ctx.Done():
			case <-time.After(panicAfter):
				zl.Warn("raising panic", zap.Duration("after", panicAfter))
				kl.Panic("demo: deliberate panic")
			}
			return nil
		})
	}

	kl.Printf("klog: ring %d bytes, console %s\n", core.Int(kl.Ring().Cap()), core.Str(consoleName))

	err = g.Wait()
	zl.Info("shutdown", zap.Stringer("state", kl.State().Load()))

	if dmesg {
		fmt.Fprintln(os.Stderr, "--- console scrollback ---")
		if _, err := con.Dmesg(os.Stderr); err != nil {
			zl.Error("dmesg", zap.Error(err))
		}
	}
	if err := kl.Close(); err != nil {
		zl.Error("close console", zap.Error(err))
	}
	return err
}

func consoleWriter(name string) (io.Writer, error) {
	switch name {
	case "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "none":
		return io.Discard, nil
	default:
		return nil, fmt.Errorf("unknown console %q", name)
	}
}

// timer prints a tick to the console once a second.
func timer(ctx context.Context, kl *logger.Logger) error {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			ticks++
			kl.Printf("timer: tick %lu\n", core.Uint64(ticks))
		}
	}
}

// disk writes log-only records, some through a standard library logger
// pointed at the ring.
func disk(ctx context.Context, kl *logger.Logger) error {
	std := log.New(kl.Writer(), "disk: ", 0)
	t := time.NewTicker(300 * time.Millisecond)
	defer t.Stop()

	var block int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			block += 8
			kl.Logf("disk: read block %lld at %p\n", core.Int64(block), core.Ptr(uintptr(0xc0000000+block*512)))
			if block%64 == 0 {
				std.Printf("flushed %d blocks", block)
			}
		}
	}
}
