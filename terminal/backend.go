package terminal

// Backend abstracts platform-specific terminal operations so the ANSI sink
// can be driven by a real tty or by an in-memory fake in tests.
type Backend interface {
	// Lifecycle
	Init() error
	Fini() error

	// Interactive reports whether input is a terminal and raw mode is active
	Interactive() bool

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) (int, error)

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	// A nil slice with nil error means stopped or end of input.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
