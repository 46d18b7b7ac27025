// Package formatter renders printf-style templates one byte at a time.
//
// Format walks the template, copying literal bytes to an Emitter and
// expanding directives from a list of core.Arg values:
//
//	%d %ld %lld   signed decimal (32-bit, then 64-bit)
//	%u %lu %llu   unsigned decimal
//	%x %lx %llx   unsigned hexadecimal
//	%p            pointer, 0x followed by 16 hex digits
//	%c            single byte
//	%s            string, "(null)" for an absent string
//	%%            literal percent
//
// An unknown directive is emitted as-is, percent sign included, so a
// malformed template shows up in the log instead of vanishing. A
// directive with no argument left, or with an argument of the wrong
// family (a string for %d, a number for %s), is also emitted as-is.
// A lone % at the very end of the template stops formatting.
//
// The engine never allocates on the emit path: integers are rendered
// into a fixed scratch array, least significant digit first, and then
// emitted in reverse. Format holds no locks and touches no shared
// state, which lets both the console and the log-only entry points,
// and the panic path, share it unchanged.
//
// Sprintf collects the output into a pooled bytes.Buffer. Buffers larger
// than 64 KiB are not returned to the pool.
package formatter
