package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Tcell is a Sink backed by a tcell screen.
// tcell owns raw mode and the alternate screen; writes land in its cell buffer until Flush.
type Tcell struct {
	screen tcell.Screen

	row, col int

	interruptCh   chan struct{}
	interruptOnce sync.Once
	pollDone      chan struct{}

	mu       sync.Mutex
	acquired bool
	released bool
}

// NewTcell wraps an uninitialized screen, tcell.NewScreen() for a real terminal
func NewTcell(screen tcell.Screen) *Tcell {
	return &Tcell{
		screen:      screen,
		interruptCh: make(chan struct{}),
	}
}

// Acquire initializes the screen and starts event polling
func (t *Tcell) Acquire() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.acquired {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.acquired = true

	t.screen.HideCursor()
	t.screen.Clear()

	t.pollDone = make(chan struct{})
	go t.pollLoop()
	return nil
}

// pollLoop ends once Fini makes PollEvent return nil
func (t *Tcell) pollLoop() {
	defer close(t.pollDone)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isTcellInterrupt(ev) {
				t.interruptOnce.Do(func() { close(t.interruptCh) })
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func isTcellInterrupt(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlD, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Release restores the terminal through tcell's own teardown
func (t *Tcell) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.acquired || t.released {
		return nil
	}
	t.released = true

	t.screen.ShowCursor(0, 0)
	t.screen.Fini()
	<-t.pollDone
	return nil
}

// Size returns current screen dimensions
func (t *Tcell) Size() (int, int) {
	return t.screen.Size()
}

// Clear blanks the cell buffer
func (t *Tcell) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	t.row, t.col = 0, 0
	return nil
}

// MoveCursor positions the write cursor (0-indexed)
func (t *Tcell) MoveCursor(row, col int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.row, t.col = row, col
	return nil
}

// Write places text into the cell buffer, advancing by display width
func (t *Tcell) Write(text string, style Style) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := tcellStyle(style)
	w, _ := t.screen.Size()
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if t.col+rw > w {
			break
		}
		t.screen.SetContent(t.col, t.row, r, nil, ts)
		t.col += rw
	}
	return nil
}

// Flush shows the buffered cells
func (t *Tcell) Flush() error {
	t.screen.Show()
	return nil
}

// Interrupt is closed when the user presses Ctrl+C, Esc or q
func (t *Tcell) Interrupt() <-chan struct{} {
	return t.interruptCh
}

// tcellStyle converts a sink style to its tcell equivalent
func tcellStyle(s Style) tcell.Style {
	ts := tcell.StyleDefault
	if !s.Default {
		ts = ts.Foreground(tcell.NewRGBColor(int32(s.Fg.R), int32(s.Fg.G), int32(s.Fg.B)))
	}
	return ts.
		Bold(s.Attrs&AttrBold != 0).
		Dim(s.Attrs&AttrDim != 0).
		Italic(s.Attrs&AttrItalic != 0).
		Underline(s.Attrs&AttrUnderline != 0).
		Blink(s.Attrs&AttrBlink != 0).
		Reverse(s.Attrs&AttrReverse != 0)
}
