package audio

import (
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/termsim/render"
)

const (
	clickDuration = 12 * time.Millisecond
	clickAttack   = time.Millisecond
	clickRelease  = 8 * time.Millisecond

	alertDuration = 150 * time.Millisecond
	alertAttack   = 20 * time.Millisecond
	alertRelease  = 40 * time.Millisecond
	alertFreq     = 120.0

	chimeNote1 = 80 * time.Millisecond
	chimeNote2 = 220 * time.Millisecond
	chimeFreq1 = 987.77  // B5
	chimeFreq2 = 1318.51 // E6
)

// cueSound builds a fresh streamer for cue at unity gain, nil for CueNone
func cueSound(cue render.Cue, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	switch cue {
	case render.CueKey:
		return shape(tone(noise(rng), 0, clickDuration, rate), clickDuration, clickAttack, clickRelease, rate)

	case render.CueAlert:
		// Fundamental plus two harmonics for a harsh edge
		buzz := tone(harmonics(0.3, 0.15, 0.075), alertFreq, alertDuration, rate)
		return shape(buzz, alertDuration, alertAttack, alertRelease, rate)

	case render.CueChime:
		n1 := shape(tone(sine, chimeFreq1, chimeNote1, rate), chimeNote1, 5*time.Millisecond, 20*time.Millisecond, rate)
		n2 := shape(tone(sine, chimeFreq2, chimeNote2, rate), chimeNote2, 5*time.Millisecond, 150*time.Millisecond, rate)
		return beep.Seq(n1, n2)
	}
	return nil
}
