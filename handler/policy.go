package handler

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// OverflowPolicy defines how to handle full sink queues
type OverflowPolicy int

const (
	// DropNewest drops the incoming byte when the queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest queued byte when the queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy converts a string to an OverflowPolicy
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "", "dropnewest":
		return DropNewest, nil
	case "dropoldest":
		return DropOldest, nil
	case "block":
		return Block, nil
	default:
		return DropNewest, fmt.Errorf("handler: unknown overflow policy %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *OverflowPolicy) UnmarshalText(text []byte) error {
	v, err := ParseOverflowPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Stats tracks sink statistics
type Stats struct {
	// DroppedTotal counts bytes lost to a full queue
	DroppedTotal uint64
	// BlockedTotal counts times a writer blocked due to a full queue
	BlockedTotal uint64
	// ProcessedTotal counts bytes delivered to the device
	ProcessedTotal uint64
	// ErrorsTotal counts device writes that failed or came up short
	ErrorsTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter
func (s *Stats) IncrementDropped() {
	atomic.AddUint64(&s.DroppedTotal, 1)
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

// AddProcessed atomically adds n to the processed counter
func (s *Stats) AddProcessed(n int) {
	atomic.AddUint64(&s.ProcessedTotal, uint64(n))
}

// IncrementErrors atomically increments the write error counter
func (s *Stats) IncrementErrors() {
	atomic.AddUint64(&s.ErrorsTotal, 1)
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.DroppedTotal, 0)
	atomic.StoreUint64(&s.BlockedTotal, 0)
	atomic.StoreUint64(&s.ProcessedTotal, 0)
	atomic.StoreUint64(&s.ErrorsTotal, 0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	DroppedTotal   uint64
	BlockedTotal   uint64
	ProcessedTotal uint64
	ErrorsTotal    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		DroppedTotal:   atomic.LoadUint64(&s.DroppedTotal),
		BlockedTotal:   atomic.LoadUint64(&s.BlockedTotal),
		ProcessedTotal: atomic.LoadUint64(&s.ProcessedTotal),
		ErrorsTotal:    atomic.LoadUint64(&s.ErrorsTotal),
	}
}

// NewStoppedTimer returns a timer that is stopped and drained, ready to be
// Reset by a blocking send.
func NewStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}
