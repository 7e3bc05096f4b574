// @lixen: #focus{lifecycle[timer,loop],render[frame,clip]}
package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsim/effect"
	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

// Driver owns the render loop and the terminal lifecycle for one effect.
// A Driver runs once; create a new one per animation.
type Driver struct {
	clock Clock
	log   zerolog.Logger
	hook  FrameHook

	state   atomic.Int32
	frames  atomic.Uint64
	skipped atomic.Uint64
}

// Stats is a snapshot of loop counters
type Stats struct {
	Frames  uint64 // frames flushed to the terminal
	Skipped uint64 // tick boundaries dropped because rendering fell behind
}

// NewDriver creates an idle driver
func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		clock: defaultClock,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the lifecycle state, safe from any goroutine
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Stats returns loop counters, safe from any goroutine
func (d *Driver) Stats() Stats {
	return Stats{
		Frames:  d.frames.Load(),
		Skipped: d.skipped.Load(),
	}
}

// Run renders fx into sink every interval until ctx is cancelled or the user
// interrupts through the sink. The terminal is restored on every exit path,
// including a panic inside the effect. Cancellation returns nil; a sink error
// is returned as *OutputFailure after restoration.
func (d *Driver) Run(ctx context.Context, fx effect.Effect, interval time.Duration, sink terminal.Sink) (err error) {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	if fx == nil || sink == nil {
		return ErrNilArgument
	}
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if d.State() == StateRunning {
			return ErrDriverRunning
		}
		return ErrDriverStopped
	}
	defer d.state.Store(int32(StateStopped))

	// Registered before Acquire so a partial acquisition is still undone
	defer func() {
		if rerr := sink.Release(); rerr != nil {
			d.log.Error().Err(rerr).Msg("terminal restore failed")
			if err == nil {
				err = &OutputFailure{Op: "release", Err: rerr}
			}
		}
	}()

	if aerr := sink.Acquire(); aerr != nil {
		return d.fail("acquire", aerr)
	}

	d.log.Info().Dur("interval", interval).Msg("driver started")
	err = d.loop(ctx, fx, interval, sink)

	stats := d.Stats()
	d.log.Info().
		Uint64("frames", stats.Frames).
		Uint64("skipped", stats.Skipped).
		Bool("failed", err != nil).
		Msg("driver stopped")
	return err
}

func (d *Driver) loop(ctx context.Context, fx effect.Effect, interval time.Duration, sink terminal.Sink) error {
	var interrupt <-chan struct{}
	if in, ok := sink.(terminal.Interrupter); ok {
		interrupt = in.Interrupt()
	}

	if err := sink.Clear(); err != nil {
		return d.fail("clear", err)
	}

	width, height := sink.Size()
	prevRows := 0
	sched := newTickScheduler(d.clock.Now(), interval)

	for n := uint64(0); ; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-interrupt:
			d.log.Debug().Msg("interrupted by user")
			return nil
		default:
		}

		frame := fx.NextFrame()

		w, h := sink.Size()
		if w != width || h != height {
			width, height = w, h
			prevRows = 0
			if err := sink.Clear(); err != nil {
				return d.fail("clear", err)
			}
			d.log.Debug().Int("width", w).Int("height", h).Msg("terminal resized")
		}

		frame = render.Clip(frame, width, height)
		if err := d.draw(sink, frame, width, prevRows); err != nil {
			return err
		}
		prevRows = len(frame.Lines)
		d.frames.Add(1)

		if d.hook != nil {
			d.hook(n, frame)
		}

		wait, missed := sched.next(d.clock.Now())
		if missed > 0 {
			d.skipped.Add(missed)
			d.log.Debug().Uint64("missed", missed).Uint64("frame", n).Msg("render behind schedule, ticks skipped")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-interrupt:
			d.log.Debug().Msg("interrupted by user")
			return nil
		case <-d.clock.After(wait):
		}
	}
}

// draw writes every line at its row, pads to full width and blanks rows the
// previous frame used beyond this one's last line
func (d *Driver) draw(sink terminal.Sink, frame render.Frame, width, prevRows int) error {
	for row, line := range frame.Lines {
		if err := sink.MoveCursor(row, 0); err != nil {
			return d.fail("move", err)
		}
		for _, span := range line {
			if span.Text == "" {
				continue
			}
			if err := sink.Write(span.Text, span.Style); err != nil {
				return d.fail("write", err)
			}
		}
		if pad := width - line.Width(); pad > 0 {
			if err := sink.Write(strings.Repeat(" ", pad), terminal.StyleDefault); err != nil {
				return d.fail("write", err)
			}
		}
	}

	if prevRows > len(frame.Lines) && width > 0 {
		blank := render.PadRight("", width)
		for row := len(frame.Lines); row < prevRows; row++ {
			if err := sink.MoveCursor(row, 0); err != nil {
				return d.fail("move", err)
			}
			if err := sink.Write(blank, terminal.StyleDefault); err != nil {
				return d.fail("write", err)
			}
		}
	}

	if err := sink.Flush(); err != nil {
		return d.fail("flush", err)
	}
	return nil
}

func (d *Driver) fail(op string, err error) error {
	d.log.Error().Str("op", op).Err(err).Msg("terminal output failed")
	return &OutputFailure{Op: op, Err: err}
}
