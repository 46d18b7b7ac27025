package consolehandler

import (
	"sync"
	"time"

	"github.com/philipp01105/klog/handler"
)

// flushSize bounds how many queued bytes one device write carries
const flushSize = 256

// AsyncConsole queues bytes for a background goroutine, the way a UART
// driver fills a transmit buffer that the interrupt handler drains.
type AsyncConsole struct {
	consoleBase
	queue          chan byte
	wg             sync.WaitGroup
	overflowPolicy handler.OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	timerMu        sync.Mutex // guards blockTimer between blocking senders
	blockTimer     *time.Timer
}

// newAsyncConsole creates a new asynchronous console.
func newAsyncConsole(cfg ConsoleConfig) (*AsyncConsole, error) {
	h := &AsyncConsole{
		queue:          make(chan byte, cfg.BufferSize),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		blockTimer:     handler.NewStoppedTimer(),
	}
	if err := h.init(cfg); err != nil {
		return nil, err
	}

	h.wg.Add(1)
	go h.process()

	return h, nil
}

// PutByte queues c with overflow policy handling. While panicking the
// queue is bypassed and c is written synchronously, since the drain
// goroutine may never run again.
func (h *AsyncConsole) PutByte(c byte) {
	if h.state.Panicking() {
		p := [1]byte{c}
		h.write(p[:])
		return
	}

	select {
	case <-h.closed:
		// Console is closing, write synchronously
		p := [1]byte{c}
		h.write(p[:])
		return
	default:
	}

	switch h.overflowPolicy {
	case handler.Block:
		select {
		case h.queue <- c:
			return
		default:
		}
		h.putBlocking(c)

	case handler.DropOldest:
		// Try non-blocking send
		select {
		case h.queue <- c:
			return
		default:
			// Queue full - try to drop oldest
			select {
			case <-h.queue: // Remove oldest
				h.stats.IncrementDropped()
			default:
			}
			// Try again
			select {
			case h.queue <- c:
			default:
				// Still full, drop this one
				h.stats.IncrementDropped()
			}
		}

	case handler.DropNewest:
		fallthrough
	default:
		// Non-blocking send
		select {
		case h.queue <- c:
		default:
			// Queue full - drop this byte
			h.stats.IncrementDropped()
		}
	}
}

// putBlocking waits up to blockTimeout for queue space, then falls back
// to a synchronous write.
func (h *AsyncConsole) putBlocking(c byte) {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()

	if !h.blockTimer.Stop() {
		select {
		case <-h.blockTimer.C:
		default:
		}
	}
	h.blockTimer.Reset(h.blockTimeout)

	select {
	case h.queue <- c:
		if !h.blockTimer.Stop() {
			select {
			case <-h.blockTimer.C:
			default:
			}
		}
	case <-h.blockTimer.C:
		// Timeout - fall back to synchronous write
		h.stats.IncrementBlocked()
		p := [1]byte{c}
		h.write(p[:])
	case <-h.closed:
		// Console is closing, write synchronously
		if !h.blockTimer.Stop() {
			select {
			case <-h.blockTimer.C:
			default:
			}
		}
		p := [1]byte{c}
		h.write(p[:])
	}
}

// process drains the queue in batches
func (h *AsyncConsole) process() {
	defer h.wg.Done()

	batch := make([]byte, 0, flushSize)
	for {
		select {
		case c := <-h.queue:
			batch = append(batch[:0], c)
			// Batch drain: pick up whatever else is queued without blocking
		batchDrain:
			for len(batch) < flushSize {
				select {
				case c := <-h.queue:
					batch = append(batch, c)
				default:
					break batchDrain
				}
			}
			h.write(batch)
		case <-h.closed:
			// Drain remaining bytes with timeout
			deadline := time.After(h.drainTimeout)
			batch = batch[:0]
		drainLoop:
			for {
				select {
				case c := <-h.queue:
					batch = append(batch, c)
					if len(batch) == flushSize {
						h.write(batch)
						batch = batch[:0]
					}
				case <-deadline:
					// Timeout reached, stop draining
					break drainLoop
				default:
					// Queue empty
					break drainLoop
				}
			}
			if len(batch) > 0 {
				h.write(batch)
			}
			return
		}
	}
}

// Close closes the console, draining the queue with a timeout.
func (h *AsyncConsole) Close() error {
	// Check if already closed (without lock to avoid deadlock)
	select {
	case <-h.closed:
		return nil // Already closed
	default:
	}

	close(h.closed)
	h.wg.Wait() // Wait without holding lock to avoid deadlock

	return h.closeDevice()
}
