package engine

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsim/render"
)

// FrameHook observes every frame after it has been flushed.
// It runs on the render goroutine and must not block.
type FrameHook func(frame uint64, f render.Frame)

// Option configures a Driver
type Option func(*Driver)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithLogger sets the structured logger, zerolog.Nop() by default
func WithLogger(l zerolog.Logger) Option {
	return func(d *Driver) {
		d.log = l
	}
}

// WithFrameHook registers a per-frame observer, used for audio cues
func WithFrameHook(h FrameHook) Option {
	return func(d *Driver) {
		d.hook = h
	}
}
