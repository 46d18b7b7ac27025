package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Sequence(t *testing.T) {
	var s State

	require.Equal(t, Normal, s.Load())
	require.False(t, s.Panicking())
	require.False(t, s.Halted())

	require.True(t, s.BeginPanic(), "first BeginPanic")
	assert.True(t, s.Panicking())
	assert.False(t, s.BeginPanic(), "second BeginPanic")

	s.Halt()
	assert.True(t, s.Halted())
	assert.True(t, s.Panicking(), "lock bypass must stay on once halted")
	assert.False(t, s.BeginPanic(), "BeginPanic moved the state backwards from halted")
}

func TestState_ConcurrentBeginPanic(t *testing.T) {
	var s State
	var wg sync.WaitGroup
	var winners atomic.Int32

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginPanic() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Normal, "normal"},
		{Panicking, "panicking"},
		{Halted, "halted"},
		{Phase(7), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.phase.String())
		})
	}
}
