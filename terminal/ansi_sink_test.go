package terminal

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeBackend records output in memory and feeds scripted input
type fakeBackend struct {
	mu          sync.Mutex
	out         bytes.Buffer
	width       int
	height      int
	interactive bool
	broken      bool
	inits       int
	finis       int
	input       chan []byte
	resize      func(w, h int)
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{width: w, height: h, input: make(chan []byte, 4)}
}

func (b *fakeBackend) Init() error       { b.mu.Lock(); b.inits++; b.mu.Unlock(); return nil }
func (b *fakeBackend) Fini() error       { b.mu.Lock(); b.finis++; b.mu.Unlock(); return nil }
func (b *fakeBackend) Interactive() bool { return b.interactive }
func (b *fakeBackend) Size() (int, int)  { return b.width, b.height }

func (b *fakeBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.broken {
		return 0, errBrokenPipe
	}
	return b.out.Write(p)
}

func (b *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data := <-b.input:
		return data, nil
	}
}

func (b *fakeBackend) SetResizeHandler(handler func(w, h int)) { b.resize = handler }

func (b *fakeBackend) setBroken(v bool) {
	b.mu.Lock()
	b.broken = v
	b.mu.Unlock()
}

func (b *fakeBackend) output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

func (b *fakeBackend) reset() {
	b.mu.Lock()
	b.out.Reset()
	b.mu.Unlock()
}

func TestANSI_AcquireEntersAltScreen(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)

	require.NoError(t, sink.Acquire())
	out := b.output()

	assert.Contains(t, out, "\x1b[?1049h", "alt screen enter")
	assert.Contains(t, out, "\x1b[?25l", "cursor hide")
	assert.Contains(t, out, "\x1b[?7l", "auto-wrap off")
	assert.Equal(t, 1, b.inits)

	// Second acquire is a no-op
	require.NoError(t, sink.Acquire())
	assert.Equal(t, 1, b.inits)
}

func TestANSI_ReleaseRestoresOnce(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)

	require.NoError(t, sink.Acquire())
	b.reset()

	require.NoError(t, sink.Release())
	out := b.output()
	assert.Contains(t, out, "\x1b[?25h", "cursor show")
	assert.Contains(t, out, "\x1b[?1049l", "alt screen exit")
	assert.Contains(t, out, "\x1b[?7h", "auto-wrap on")
	assert.Equal(t, 1, b.finis)

	b.reset()
	require.NoError(t, sink.Release())
	assert.Empty(t, b.output())
	assert.Equal(t, 1, b.finis)
}

func TestANSI_ReleaseWithoutAcquire(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorMode256)

	require.NoError(t, sink.Release())
	assert.Empty(t, b.output())
	assert.Zero(t, b.finis)
}

func TestANSI_WriteTrueColor(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())
	b.reset()

	require.NoError(t, sink.Write("hi", Fg(RGB{1, 2, 3}).Bold()))
	require.NoError(t, sink.Flush())

	assert.Equal(t, "\x1b[0;1;38;2;1;2;3mhi", b.output())
}

func TestANSI_Write256Fallback(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorMode256)
	require.NoError(t, sink.Acquire())
	b.reset()

	require.NoError(t, sink.Write("x", Fg(RGB{255, 0, 0})))
	require.NoError(t, sink.Flush())

	assert.Equal(t, "\x1b[0;38;5;196mx", b.output())
}

func TestANSI_StyleCoalescing(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())
	b.reset()

	style := Fg(RGBGreen)
	require.NoError(t, sink.Write("ab", style))
	require.NoError(t, sink.Write("cd", style))
	require.NoError(t, sink.Write("ef", StyleDefault))
	require.NoError(t, sink.Flush())

	out := b.output()
	assert.Equal(t, 2, strings.Count(out, "\x1b[0"), "one SGR per style change")
	assert.True(t, strings.HasSuffix(out, "\x1b[0mef"))
}

func TestANSI_MoveCursor(t *testing.T) {
	b := newFakeBackend(10, 5)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())

	tests := []struct {
		name     string
		row, col int
		want     string
	}{
		{"origin", 0, 0, "\x1b[1;1H"},
		{"inside", 2, 4, "\x1b[3;5H"},
		{"clamped high", 50, 50, "\x1b[5;10H"},
		{"clamped low", -3, -1, "\x1b[1;1H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.reset()
			require.NoError(t, sink.MoveCursor(tt.row, tt.col))
			require.NoError(t, sink.Flush())
			assert.Equal(t, tt.want, b.output())
		})
	}
}

func TestANSI_WriteFailureIsSticky(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())

	b.setBroken(true)
	require.NoError(t, sink.Write("frame", StyleDefault), "buffered write succeeds")
	err := sink.Flush()
	require.ErrorIs(t, err, errBrokenPipe)

	// Subsequent buffered operations keep reporting the failure
	assert.ErrorIs(t, sink.MoveCursor(0, 0), errBrokenPipe)
	assert.ErrorIs(t, sink.Write("more", StyleDefault), errBrokenPipe)
}

func TestANSI_ReleaseBypassesBrokenBuffer(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())

	b.setBroken(true)
	require.NoError(t, sink.Write("frame", StyleDefault))
	require.Error(t, sink.Flush())

	// Output recovers, restore sequences must still reach the terminal
	b.setBroken(false)
	b.reset()
	require.NoError(t, sink.Release())

	out := b.output()
	assert.NotContains(t, out, "frame")
	assert.Contains(t, out, "\x1b[?25h")
	assert.Contains(t, out, "\x1b[?1049l")
	assert.Equal(t, 1, b.finis)
}

func TestANSI_ReleaseReportsWriteError(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())

	b.setBroken(true)
	err := sink.Release()
	assert.ErrorIs(t, err, errBrokenPipe)
	assert.Equal(t, 1, b.finis, "termios restored even when output is gone")
}

func TestANSI_ResizeUpdatesSize(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())
	require.NotNil(t, b.resize)

	b.resize(120, 40)
	w, h := sink.Size()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)

	// Bogus sizes are ignored
	b.resize(0, 0)
	w, h = sink.Size()
	assert.Equal(t, 120, w)
	assert.Equal(t, 40, h)
}

func TestANSI_InterruptOnCtrlC(t *testing.T) {
	b := newFakeBackend(80, 24)
	b.interactive = true
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())
	defer sink.Release()

	b.input <- []byte("x")
	b.input <- []byte{keyCtrlC}

	select {
	case <-sink.Interrupt():
	case <-time.After(time.Second):
		t.Fatal("interrupt not signalled")
	}
}

func TestANSI_NoInputReaderWhenNotInteractive(t *testing.T) {
	b := newFakeBackend(80, 24)
	sink := NewANSI(b, ColorModeTrueColor)
	require.NoError(t, sink.Acquire())

	b.input <- []byte{keyCtrlC}

	select {
	case <-sink.Interrupt():
		t.Fatal("non-interactive sink must not read input")
	case <-time.After(50 * time.Millisecond):
	}
	require.NoError(t, sink.Release())
}
