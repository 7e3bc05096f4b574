package effect

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/termsim/render"
)

// base is the state every effect shares: seeded randomness, the simulated
// clock, a pause counter standing in for sleeps, and the console scrollback
type base struct {
	rng      *rand.Rand
	view     Viewport
	interval time.Duration
	start    time.Time

	tick  uint64   // frames produced so far
	wait  int      // ticks left in the current pause
	queue []func() // script continuations waiting for the pause to end
	con   console
	cue   render.Cue
}

func newBase(cfg Config) base {
	return base{
		rng:      cfg.Rand,
		view:     cfg.Viewport,
		interval: cfg.Interval,
		start:    cfg.Start,
		con:      newConsole(scrollbackLines),
	}
}

// ticks converts a duration to whole frames, at least one
func (b *base) ticks(d time.Duration) int {
	n := int((d + b.interval - 1) / b.interval)
	if n < 1 {
		n = 1
	}
	return n
}

// sleep pauses the effect's script for d of simulated time
func (b *base) sleep(d time.Duration) {
	b.wait += b.ticks(d)
}

func (b *base) sleepSeconds(s float64) {
	b.sleep(time.Duration(s * float64(time.Second)))
}

// sleeping consumes one tick of a pending pause
func (b *base) sleeping() bool {
	if b.wait > 0 {
		b.wait--
		return true
	}
	return false
}

// then runs fn now, or once the current pause is over
func (b *base) then(fn func()) {
	if b.wait == 0 && len(b.queue) == 0 {
		fn()
		return
	}
	b.queue = append(b.queue, fn)
}

// advance moves the script forward by one tick: a pending pause first, then
// queued continuations, and only then a fresh step
func (b *base) advance(step func()) {
	if b.sleeping() {
		return
	}
	if len(b.queue) > 0 {
		fn := b.queue[0]
		b.queue = b.queue[1:]
		fn()
		return
	}
	step()
}

// now is the simulated wall clock of the current frame
func (b *base) now() time.Time {
	return b.start.Add(time.Duration(b.tick) * b.interval)
}

// since returns simulated time elapsed from tick t0
func (b *base) since(t0 uint64) time.Duration {
	return time.Duration(b.tick-t0) * b.interval
}

// emit renders the console into a frame and clears the pending cue
func (b *base) emit() render.Frame {
	w, h := b.view.Size()
	f := render.Frame{Lines: b.con.view(w, h), Cue: b.cue}
	b.cue = render.CueNone
	return f
}

// signal keeps the strongest cue raised within a tick
func (b *base) signal(c render.Cue) {
	if c > b.cue {
		b.cue = c
	}
}

func (b *base) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

// randint is inclusive on both ends
func (b *base) randint(lo, hi int) int {
	return lo + b.rng.Intn(hi-lo+1)
}

func (b *base) chance(p float64) bool {
	return b.rng.Float64() < p
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// weighted returns an index with probability proportional to its weight
func weighted(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
