// Package consolehandler provides console devices that write bytes to any
// io.Writer (default: os.Stdout).
//
// Consoles are split into sync and async variants:
//
//   - SyncConsole writes each byte straight to the writer under the
//     console mutex.
//   - AsyncConsole models a UART transmit queue: bytes go into a bounded
//     queue drained by a dedicated goroutine, and a full queue applies
//     the configured OverflowPolicy.
//
// Both share the fatal-error rules of the log facility. While the shared
// core.State is Panicking the console mutex is skipped and bytes are
// written synchronously, so the panic message reaches the operator even
// if the faulting goroutine was in the middle of console output. Once
// the state is Halted everything else is dropped, freezing the console
// with the panic message as its last output.
//
// A console may keep a scrollback of its recent output in a
// github.com/KarpelesLab/ringbuf buffer; Dmesg replays it.
//
// The factory function NewConsoleHandler chooses the variant based on
// the Async field in ConsoleConfig.
package consolehandler
