// Package logger is the public API of klog: the kernel's printf, its
// silent log-only twin, and panic. Most callers only need this package.
//
// A Logger is the one explicitly-owned piece of log state: it owns the
// ring buffer, the output router and the output lock, and it shares a
// core.State with its console. Create it once at startup with the
// Builder and pass it to every subsystem that prints:
//
//	state := new(core.State)
//	cons, _ := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{State: state})
//	klog, _ := logger.NewBuilder().
//	    WithState(state).
//	    WithConsole(cons).
//	    Build()
//
//	klog.Printf("hart %d starting\n", logger.Int(1))
//	klog.Logf("exec %s\n", logger.Str(path)) // ring only
//
// Printf and Logf serialize on the output lock so whole messages do not
// interleave. Logf switches the router to log-only for the duration of
// the call and back to console before it returns; it does not nest.
//
// Panic is one-way. It moves the state to Panicking, which makes Printf,
// Logf, the ring and the console skip their locks; prints "panic: " and
// the message; moves the state to Halted; and never returns. Skipping
// the locks lets a goroutine that panics while holding one of them
// still get its message out, at the cost of possible interleaving with
// other writers.
//
// A reader drains the ring with ReadLog, or KlogRead, which collapses
// every failure to -1 the way a system call would.
package logger
