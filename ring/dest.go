package ring

import "github.com/philipp01105/klog/core"

// Destination is where Read copies bytes to. off is the offset from the
// start of the destination.
type Destination interface {
	CopyOut(off int, src []byte) error
}

// Buffer is a kernel-space destination
type Buffer []byte

// CopyOut copies src into b at off
func (b Buffer) CopyOut(off int, src []byte) error {
	if off < 0 || off+len(src) > len(b) {
		return core.ErrBadDestination
	}
	copy(b[off:], src)
	return nil
}

// UserSpace models a process address space where only the first Mapped
// bytes of Mem are backed by pages. Copies that touch unmapped memory
// fault.
type UserSpace struct {
	Mem    []byte
	Mapped int
}

// NewUserSpace creates an address space of size bytes, of which the first
// mapped are writable
func NewUserSpace(size, mapped int) *UserSpace {
	if mapped > size {
		mapped = size
	}
	return &UserSpace{Mem: make([]byte, size), Mapped: mapped}
}

// At returns a destination starting at addr
func (u *UserSpace) At(addr int) Destination {
	return userRange{space: u, addr: addr}
}

type userRange struct {
	space *UserSpace
	addr  int
}

func (d userRange) CopyOut(off int, src []byte) error {
	start := d.addr + off
	if start < 0 || off < 0 || start+len(src) > d.space.Mapped {
		return core.ErrCopyFault
	}
	copy(d.space.Mem[start:], src)
	return nil
}
