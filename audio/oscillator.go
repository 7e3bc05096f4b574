package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// wave maps an oscillator phase in [0,1) to a sample in [-1,1]
type wave func(phase float64) float64

func sine(p float64) float64 { return math.Sin(2 * math.Pi * p) }

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func saw(p float64) float64 { return 2*p - 1 }

// noise ignores the phase; rng keeps clicks reproducible under a fixed seed
func noise(rng *rand.Rand) wave {
	return func(float64) float64 { return rng.Float64()*2 - 1 }
}

// harmonics stacks sine partials, weights[k] scaling the (k+1)th
func harmonics(weights ...float64) wave {
	return func(p float64) float64 {
		var v float64
		for k, w := range weights {
			v += w * sine(float64(k+1)*p)
		}
		return v
	}
}

// tone renders d of w at freq, the same signal on both channels
func tone(w wave, freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	step := freq / float64(rate)
	phase, pos := 0.0, 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := min(len(samples), total-pos)
		for i := range samples[:n] {
			v := w(phase)
			samples[i] = [2]float64{v, v}
			phase += step
			phase -= math.Floor(phase)
		}
		pos += n
		return n, true
	})
}

// shape cuts s at d and applies a linear attack ramp and release tail
func shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total, att, rel := rate.N(d), rate.N(attack), rate.N(release)
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n, ok := s.Stream(samples[:min(len(samples), total-pos)])
		for i := range samples[:n] {
			g := envelopeGain(pos, total, att, rel)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}

func envelopeGain(pos, total, attack, release int) float64 {
	g := 1.0
	if attack > 0 && pos < attack {
		g = float64(pos) / float64(attack)
	}
	if left := total - pos; release > 0 && left <= release {
		g = min(g, float64(left)/float64(release))
	}
	return g
}

// withGain scales s by a linear gain; Volume works in log2 so zero becomes Silent
func withGain(s beep.Streamer, g float64) beep.Streamer {
	v := &effects.Volume{Streamer: s, Base: 2, Silent: g <= 0}
	if g > 0 {
		v.Volume = math.Log2(g)
	}
	return v
}
