package formatter

import (
	"github.com/philipp01105/klog/core"
)

const digits = "0123456789abcdef"

// Format renders template with args into e
func Format(e Emitter, template string, args ...core.Arg) {
	next := 0
	arg := func() (core.Arg, bool) {
		if next >= len(args) {
			return core.Arg{}, false
		}
		a := args[next]
		next++
		return a, true
	}

	for i := 0; i < len(template); i++ {
		cx := template[i]
		if cx != '%' {
			e.PutByte(cx)
			continue
		}
		start := i
		i++
		if i >= len(template) {
			break
		}
		c0 := template[i]
		var c1, c2 byte
		if i+1 < len(template) {
			c1 = template[i+1]
		}
		if c1 != 0 && i+2 < len(template) {
			c2 = template[i+2]
		}

		// l and ll select the 64-bit width; verb is the conversion byte
		wide := false
		verb := c0
		switch {
		case c0 == 'l' && isIntVerb(c1):
			wide, verb = true, c1
			i++
		case c0 == 'l' && c1 == 'l' && isIntVerb(c2):
			wide, verb = true, c2
			i += 2
		}

		switch verb {
		case 'd', 'u', 'x':
			a, ok := arg()
			if !ok || a.Kind == core.StringArg {
				emitString(e, template[start:i+1])
				continue
			}
			printNumber(e, a, verb, wide)
		case 'p':
			a, ok := arg()
			if !ok || a.Kind == core.StringArg {
				emitString(e, template[start:i+1])
				continue
			}
			printPtr(e, a.Unsigned())
		case 'c':
			a, ok := arg()
			if !ok || a.Kind == core.StringArg {
				emitString(e, template[start:i+1])
				continue
			}
			e.PutByte(byte(a.Unsigned()))
		case 's':
			a, ok := arg()
			if !ok || a.Kind != core.StringArg {
				emitString(e, template[start:i+1])
				continue
			}
			if a.Null {
				emitString(e, "(null)")
				continue
			}
			emitString(e, a.Str)
		case '%':
			e.PutByte('%')
		default:
			// Print unknown % sequence to draw attention.
			e.PutByte('%')
			e.PutByte(c0)
		}
	}
}

func isIntVerb(c byte) bool {
	return c == 'd' || c == 'u' || c == 'x'
}

func printNumber(e Emitter, a core.Arg, verb byte, wide bool) {
	switch verb {
	case 'd':
		v := a.Signed()
		if !wide {
			v = int64(int32(v))
		}
		printInt(e, uint64(v), 10, v < 0)
	case 'u':
		v := a.Unsigned()
		if !wide {
			v = uint64(uint32(v))
		}
		printInt(e, v, 10, false)
	case 'x':
		v := a.Unsigned()
		if !wide {
			v = uint64(uint32(v))
		}
		printInt(e, v, 16, false)
	}
}

// printInt renders x in base. When neg is set x holds the two's
// complement bits of a negative value.
func printInt(e Emitter, x uint64, base uint64, neg bool) {
	var buf [20]byte

	if neg {
		x = -x
	}

	i := 0
	for {
		buf[i] = digits[x%base]
		i++
		x /= base
		if x == 0 {
			break
		}
	}

	if neg {
		buf[i] = '-'
		i++
	}

	for i--; i >= 0; i-- {
		e.PutByte(buf[i])
	}
}

func printPtr(e Emitter, x uint64) {
	e.PutByte('0')
	e.PutByte('x')
	for i := 0; i < 16; i, x = i+1, x<<4 {
		e.PutByte(digits[x>>60])
	}
}

func emitString(e Emitter, s string) {
	for i := 0; i < len(s); i++ {
		e.PutByte(s[i])
	}
}
