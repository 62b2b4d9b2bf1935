package terminal

// Backend abstracts the platform side of the ANSI device: raw mode,
// byte I/O and resize notification
type Backend interface {
	Init() error
	Fini()

	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events
	SetResizeHandler(handler func(width, height int))
}
