//go:build unix

package terminal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTYBackend_PipedInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	b := &ttyBackend{in: r, out: w}
	require.NoError(t, b.Init(), "non-tty input is tolerated")
	assert.False(t, b.Interactive())

	ready, err := readable(int(r.Fd()), 10)
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = w.Write([]byte("q"))
	require.NoError(t, err)

	data, err := b.Read(make(chan struct{}))
	require.NoError(t, err)
	assert.Equal(t, []byte("q"), data)

	// EOF ends the read loop
	require.NoError(t, w.Close())
	data, err = b.Read(make(chan struct{}))
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, b.Fini())
}

func TestTTYBackend_ReadStops(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	b := &ttyBackend{in: r, out: w}
	stop := make(chan struct{})
	done := make(chan []byte, 1)
	go func() {
		data, _ := b.Read(stop)
		done <- data
	}()

	close(stop)
	select {
	case data := <-done:
		assert.Nil(t, data)
	case <-time.After(time.Second):
		t.Fatal("Read ignored the stop channel")
	}
}

func TestWindowSize_FallsBackOffTTY(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	width, height := windowSize(int(w.Fd()))
	assert.Equal(t, 80, width)
	assert.Equal(t, 24, height)
}
