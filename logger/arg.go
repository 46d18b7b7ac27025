package logger

import (
	"github.com/philipp01105/klog/core"
)

// Argument helper functions for convenience

// Int creates a signed argument
func Int(v int) core.Arg {
	return core.Int(v)
}

// Int64 creates a signed argument
func Int64(v int64) core.Arg {
	return core.Int64(v)
}

// Uint creates an unsigned argument
func Uint(v uint) core.Arg {
	return core.Uint(v)
}

// Uint64 creates an unsigned argument
func Uint64(v uint64) core.Arg {
	return core.Uint64(v)
}

// Ptr creates a pointer argument
func Ptr(p uintptr) core.Arg {
	return core.Ptr(p)
}

// Char creates a character argument
func Char(c byte) core.Arg {
	return core.Char(c)
}

// Str creates a string argument
func Str(s string) core.Arg {
	return core.Str(s)
}

// StrPtr creates a string argument; nil renders as "(null)"
func StrPtr(p *string) core.Arg {
	return core.StrPtr(p)
}
