package terminal

// Sink is the output surface an animation renders into.
// Rows and columns are 0-indexed. Implementations buffer writes until Flush.
type Sink interface {
	// Acquire enters raw mode and the alternate screen and hides the cursor
	Acquire() error

	// Release restores everything Acquire changed. Safe to call multiple times
	Release() error

	// Size returns current terminal dimensions
	Size() (width, height int)

	// Clear blanks the whole screen
	Clear() error

	// MoveCursor positions the write cursor
	MoveCursor(row, col int) error

	// Write emits text at the cursor in the given style
	Write(text string, style Style) error

	// Flush pushes buffered output to the terminal
	Flush() error
}

// Interrupter is implemented by sinks that read the keyboard themselves.
// The channel is closed once the user asks to quit (Ctrl+C, Esc, q).
type Interrupter interface {
	Interrupt() <-chan struct{}
}
