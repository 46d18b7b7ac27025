package core

import "errors"

var (
	// ErrCanceled is returned by a blocked read whose context was canceled
	ErrCanceled = errors.New("klog: read canceled")
	// ErrCopyFault is returned when copying into a destination fails
	ErrCopyFault = errors.New("klog: copy fault")
	// ErrBadDestination reports a destination range that is not writable
	ErrBadDestination = errors.New("klog: bad destination")
)
