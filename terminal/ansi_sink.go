// @lixen: #focus{sys[term,io,output]}
package terminal

import (
	"bufio"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ANSI is a Sink emitting direct ANSI sequences through a Backend.
// It bypasses terminfo entirely and targets xterm-compatible terminals.
type ANSI struct {
	backend   Backend
	writer    *bufio.Writer
	colorMode ColorMode

	width  atomic.Int32
	height atomic.Int32

	// Style coalescing across consecutive writes
	lastStyle Style
	lastValid bool

	interruptCh   chan struct{}
	interruptOnce sync.Once
	inputStopCh   chan struct{}
	inputDoneCh   chan struct{}

	mu       sync.Mutex
	acquired bool
	released bool
}

// NewANSI creates an ANSI sink over the given backend
func NewANSI(backend Backend, colorMode ColorMode) *ANSI {
	t := &ANSI{
		backend:     backend,
		writer:      bufio.NewWriterSize(backend, 64*1024),
		colorMode:   colorMode,
		interruptCh: make(chan struct{}),
	}
	w, h := backend.Size()
	t.width.Store(int32(w))
	t.height.Store(int32(h))
	return t
}

// Acquire enters raw mode, alternate screen, hides cursor
func (t *ANSI) Acquire() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.acquired {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}
	t.acquired = true

	w, h := t.backend.Size()
	t.width.Store(int32(w))
	t.height.Store(int32(h))

	t.backend.SetResizeHandler(func(w, h int) {
		if w > 0 && h > 0 {
			t.width.Store(int32(w))
			t.height.Store(int32(h))
		}
	})

	if t.backend.Interactive() {
		t.startInput()
	}

	t.writer.Write(csiAltScreenEnter)
	t.writer.Write(csiCursorHide)
	// Prevents terminal scroll/wrap on bottom-right corner write
	t.writer.Write(csiAutoWrapOff)
	t.writer.Write(csiSGR0)
	t.writer.Write(csiClear)
	t.lastValid = false

	return t.writer.Flush()
}

// Release restores terminal state. Every step is attempted even if an earlier one fails.
func (t *ANSI) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.acquired || t.released {
		return nil
	}
	t.released = true

	t.stopInput()

	// Pending frame output is meaningless once the alternate screen is gone; a broken
	// writer would also swallow the restore sequences, so they bypass the buffer
	t.writer.Reset(t.backend)

	var restore []byte
	restore = append(restore, csiSGR0...)
	restore = append(restore, csiCursorShow...)
	restore = append(restore, csiAltScreenExit...)
	// Re-enable auto-wrap after leaving the alt screen so the main buffer has it
	restore = append(restore, csiAutoWrapOn...)

	_, writeErr := t.backend.Write(restore)
	finiErr := t.backend.Fini()

	return errors.Join(writeErr, finiErr)
}

// Size returns current terminal dimensions, tracking SIGWINCH
func (t *ANSI) Size() (int, int) {
	return int(t.width.Load()), int(t.height.Load())
}

// Clear blanks the screen and homes the cursor
func (t *ANSI) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writer.Write(csiSGR0)
	_, err := t.writer.Write(csiClear)
	t.lastValid = false
	return err
}

// MoveCursor positions cursor (0-indexed)
func (t *ANSI) MoveCursor(row, col int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.Size()
	row = clampInt(row, 0, h-1)
	col = clampInt(col, 0, w-1)

	writeCursorPos(t.writer, row, col)
	// bufio keeps the first error sticky; surface it here
	_, err := t.writer.Write(nil)
	return err
}

// Write emits text in style, only sending SGR when the style changes
func (t *ANSI) Write(text string, style Style) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lastValid || style != t.lastStyle {
		writeSGR(t.writer, style, t.colorMode)
		t.lastStyle = style
		t.lastValid = true
	}
	_, err := t.writer.WriteString(text)
	return err
}

// Flush writes buffered output to the terminal
func (t *ANSI) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.writer.Flush()
}

// Interrupt is closed when the user presses Ctrl+C, Esc or q
func (t *ANSI) Interrupt() <-chan struct{} {
	return t.interruptCh
}

func (t *ANSI) startInput() {
	t.inputStopCh = make(chan struct{})
	t.inputDoneCh = make(chan struct{})

	go func() {
		defer close(t.inputDoneCh)
		for {
			data, err := t.backend.Read(t.inputStopCh)
			if err != nil || data == nil {
				return
			}
			if isInterruptKey(data) {
				t.interruptOnce.Do(func() { close(t.interruptCh) })
			}
		}
	}()
}

func (t *ANSI) stopInput() {
	if t.inputStopCh == nil {
		return
	}
	close(t.inputStopCh)
	// Don't block forever if the read is stuck
	select {
	case <-t.inputDoneCh:
	case <-time.After(100 * time.Millisecond):
	}
	t.inputStopCh = nil
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
