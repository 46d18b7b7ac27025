package consolehandler

// SyncConsole writes every byte to the device before PutByte returns.
type SyncConsole struct {
	consoleBase
}

// newSyncConsole creates a new synchronous console.
func newSyncConsole(cfg ConsoleConfig) (*SyncConsole, error) {
	h := &SyncConsole{}
	if err := h.init(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// PutByte writes c to the device
func (h *SyncConsole) PutByte(c byte) {
	p := [1]byte{c}
	h.write(p[:])
}

// Close closes the console.
func (h *SyncConsole) Close() error {
	select {
	case <-h.closed:
		return nil // Already closed
	default:
		close(h.closed)
	}
	return h.closeDevice()
}
