package handler

import (
	"go.uber.org/multierr"
)

// MultiSink sends each byte to multiple sinks
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a new multi-sink. Nil sinks are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{sinks: make([]Sink, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// PutByte delivers c to every sink in order
func (m *MultiSink) PutByte(c byte) {
	for _, s := range m.sinks {
		s.PutByte(c)
	}
}

// Close closes every sink that implements Closer and returns all errors
func (m *MultiSink) Close() error {
	var err error
	for _, s := range m.sinks {
		if c, ok := s.(Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
