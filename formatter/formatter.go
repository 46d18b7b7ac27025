package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/klog/core"
)

// Emitter receives formatted output one byte at a time
type Emitter interface {
	PutByte(c byte)
}

// EmitFunc adapts an ordinary function to Emitter
type EmitFunc func(c byte)

// PutByte calls f(c)
func (f EmitFunc) PutByte(c byte) {
	f(c)
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Sprintf formats into a string
func Sprintf(template string, args ...core.Arg) string {
	buf := getBuffer()
	Format(EmitFunc(func(c byte) { buf.WriteByte(c) }), template, args...)
	s := buf.String()
	putBuffer(buf)
	return s
}
