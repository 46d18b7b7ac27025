package core

// ArgKind identifies which member of Arg is meaningful
type ArgKind uint8

const (
	SignedArg ArgKind = iota
	UnsignedArg
	PointerArg
	CharArg
	StringArg
)

// String returns the string representation of the kind
func (k ArgKind) String() string {
	switch k {
	case SignedArg:
		return "signed"
	case UnsignedArg:
		return "unsigned"
	case PointerArg:
		return "pointer"
	case CharArg:
		return "char"
	case StringArg:
		return "string"
	default:
		return "unknown"
	}
}

// Arg is a single formatter argument
type Arg struct {
	Kind   ArgKind
	Int64  int64
	Uint64 uint64
	Str    string
	// Null marks an absent string argument, rendered as "(null)"
	Null bool
}

// Int creates a signed argument
func Int(v int) Arg {
	return Arg{Kind: SignedArg, Int64: int64(v)}
}

// Int64 creates a signed argument
func Int64(v int64) Arg {
	return Arg{Kind: SignedArg, Int64: v}
}

// Uint creates an unsigned argument
func Uint(v uint) Arg {
	return Arg{Kind: UnsignedArg, Uint64: uint64(v)}
}

// Uint64 creates an unsigned argument
func Uint64(v uint64) Arg {
	return Arg{Kind: UnsignedArg, Uint64: v}
}

// Ptr creates a pointer argument
func Ptr(p uintptr) Arg {
	return Arg{Kind: PointerArg, Uint64: uint64(p)}
}

// Char creates a character argument
func Char(c byte) Arg {
	return Arg{Kind: CharArg, Uint64: uint64(c)}
}

// Str creates a string argument
func Str(s string) Arg {
	return Arg{Kind: StringArg, Str: s}
}

// StrPtr creates a string argument from a pointer. A nil pointer
// produces an absent string.
func StrPtr(p *string) Arg {
	if p == nil {
		return Arg{Kind: StringArg, Null: true}
	}
	return Arg{Kind: StringArg, Str: *p}
}

// Signed returns the argument's bits as a signed integer
func (a Arg) Signed() int64 {
	if a.Kind == SignedArg {
		return a.Int64
	}
	return int64(a.Uint64)
}

// Unsigned returns the argument's bits as an unsigned integer
func (a Arg) Unsigned() uint64 {
	if a.Kind == SignedArg {
		return uint64(a.Int64)
	}
	return a.Uint64
}
