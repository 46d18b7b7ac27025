package logger

import (
	"io"

	"github.com/philipp01105/klog/core"
	"github.com/philipp01105/klog/handler"
)

// Writer returns an io.Writer whose output goes to the ring only, for
// pointing a standard library *log.Logger at the kernel log.
func (l *Logger) Writer() io.Writer {
	return logWriter{l: l, mode: handler.LogOnlyMode}
}

// ConsoleWriter returns an io.Writer whose output goes to the console
// and the ring.
func (l *Logger) ConsoleWriter() io.Writer {
	return logWriter{l: l, mode: handler.ConsoleMode}
}

type logWriter struct {
	l    *Logger
	mode handler.Mode
}

func (w logWriter) Write(p []byte) (int, error) {
	w.l.print(w.mode, "%s", []core.Arg{core.Str(string(p))})
	return len(p), nil
}
