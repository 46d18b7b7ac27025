package logger_test

import (
	"context"
	"fmt"
	"os"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler/consolehandler"
	"github.com/philipp01105/klog/logger"
	"github.com/philipp01105/klog/ring"
)

func Example() {
	state := new(core.State)
	cons, err := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer: os.Stdout,
		State:  state,
	})
	if err != nil {
		panic(err)
	}

	klog, err := logger.NewBuilder().
		WithState(state).
		WithConsole(cons).
		Build()
	if err != nil {
		panic(err)
	}
	defer klog.Close()

	klog.Printf("hart %d starting\n", logger.Int(1))
	klog.Logf("exec %s\n", logger.Str("/init"))

	p := make([]byte, 64)
	n := klog.KlogRead(context.Background(), ring.Buffer(p), len(p))
	fmt.Printf("ring: %q\n", p[:n])
	// Output:
	// hart 1 starting
	// ring: "hart 1 starting\nexec /init\n"
}
