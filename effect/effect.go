package effect

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/termsim/render"
)

// Effect produces one frame per tick. All state lives inside the implementation
// and is touched only by the goroutine calling NextFrame.
type Effect interface {
	NextFrame() render.Frame
}

// Summarizer is implemented by effects that print a closing report once the
// terminal has been restored, the way the scripts they mimic do on Ctrl+C
type Summarizer interface {
	Summary() []render.Line
}

// Viewport reports the drawable area. Effects query it every frame.
type Viewport interface {
	Size() (width, height int)
}

// FixedViewport is a Viewport of constant size
type FixedViewport struct {
	Width, Height int
}

func (v FixedViewport) Size() (int, int) { return v.Width, v.Height }

// Config carries everything an effect needs from outside.
// Rand and Start make a run reproducible: the same seed, start and viewport
// produce the same frame sequence.
type Config struct {
	Rand     *rand.Rand
	Viewport Viewport
	Interval time.Duration // frame interval the driver will use
	Start    time.Time     // simulated wall clock at tick 0
}

func (c Config) withDefaults(m Mode) Config {
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(1))
	}
	if c.Viewport == nil {
		c.Viewport = FixedViewport{Width: 80, Height: 24}
	}
	if c.Interval <= 0 {
		c.Interval = m.DefaultInterval()
	}
	if c.Start.IsZero() {
		c.Start = time.Now()
	}
	return c
}

// New builds the effect for mode
func New(m Mode, cfg Config) (Effect, error) {
	info, ok := registry[m]
	if !ok {
		return nil, &InvalidModeError{Mode: string(m)}
	}
	return info.build(cfg.withDefaults(m)), nil
}
