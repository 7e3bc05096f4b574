package core

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureCrash swaps the process-level hooks for the duration of a test
func captureCrash(t *testing.T) (out *bytes.Buffer, exits *[]int, resets *int) {
	t.Helper()
	out = &bytes.Buffer{}
	exits = &[]int{}
	resets = new(int)

	oldOut, oldExit, oldReset := crashOut, crashExit, crashReset
	crashOut = out
	crashExit = func(code int) { *exits = append(*exits, code) }
	crashReset = func() { *resets++ }
	t.Cleanup(func() {
		crashOut, crashExit, crashReset = oldOut, oldExit, oldReset
		RegisterRelease(nil)
	})
	return out, exits, resets
}

func TestHandleCrash_Nil(t *testing.T) {
	out, exits, resets := captureCrash(t)
	HandleCrash(nil)

	assert.Empty(t, out.String())
	assert.Empty(t, *exits)
	assert.Zero(t, *resets)
}

func TestHandleCrash_RestoresAndExits(t *testing.T) {
	out, exits, resets := captureCrash(t)

	released := 0
	RegisterRelease(func() error {
		released++
		return errors.New("already gone")
	})

	HandleCrash("boom")

	assert.Equal(t, 1, released)
	assert.Equal(t, 1, *resets, "termios reset runs even after Release")
	assert.Equal(t, []int{1}, *exits)
	assert.Contains(t, out.String(), "CRASH DETECTED: boom")
	assert.Contains(t, out.String(), "Stack Trace:")
	assert.Contains(t, out.String(), "crash_handler.go")
}

func TestGo_RecoversPanic(t *testing.T) {
	out, exits, _ := captureCrash(t)
	done := make(chan struct{})

	// Exit hook signals completion since os.Exit would normally end the process
	crashExit = func(code int) {
		*exits = append(*exits, code)
		close(done)
	}

	Go(func() { panic("worker failed") })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("crash handler not invoked")
	}
	require.Equal(t, []int{1}, *exits)
	assert.Contains(t, out.String(), "worker failed")
}

func TestGo_RunsNormally(t *testing.T) {
	_, exits, _ := captureCrash(t)
	done := make(chan struct{})
	Go(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fn not run")
	}
	assert.Empty(t, *exits)
}
