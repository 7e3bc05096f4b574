// @focus: #sys { audio }
package audio

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsim/render"
)

// maxVoices bounds overlapping sounds so a burst of typing cues cannot pile up
const maxVoices = 8

// Player turns frame cues into short synthesized sounds.
// A Player that failed to start, or was never started, ignores Play.
type Player struct {
	cfg    *Config
	log    zerolog.Logger
	rate   beep.SampleRate
	mixer  *beep.Mixer
	rng    *rand.Rand
	opener func(rate int) []device

	mu      sync.Mutex
	dev     device
	started bool
	played  uint64
	dropped uint64
}

// NewPlayer creates a stopped player. A nil cfg uses DefaultConfig.
func NewPlayer(cfg *Config, log zerolog.Logger) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Player{
		cfg:    cfg,
		log:    log,
		rate:   beep.SampleRate(cfg.SampleRate),
		mixer:  &beep.Mixer{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		opener: defaultDevices,
	}
}

// defaultDevices tries the native device first, then a command-line player
func defaultDevices(rate int) []device {
	devs := []device{speakerDevice{}}
	if backend, err := DetectBackend(rate); err == nil {
		devs = append(devs, newPipeDevice(backend))
	}
	return devs
}

// Start opens the first working audio device. Calling it twice is a no-op.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	var errs []error
	for _, dev := range p.opener(int(p.rate)) {
		if err := dev.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
			p.log.Debug().Err(err).Str("device", dev.Name()).Msg("audio device unavailable")
			errs = append(errs, err)
			continue
		}
		dev.Play(p.mixer)
		p.dev = dev
		p.started = true
		p.log.Info().Str("device", dev.Name()).Int("rate", int(p.rate)).Msg("audio started")
		return nil
	}

	if len(errs) == 0 {
		return ErrNoAudioBackend
	}
	return errors.Join(append([]error{ErrNoAudioBackend}, errs...)...)
}

// Play mixes in the sound for cue. It never blocks on audio output.
func (p *Player) Play(cue render.Cue) {
	if cue == render.CueNone {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	s := cueSound(cue, p.rate, p.rng)
	if s == nil {
		return
	}

	p.dev.Lock()
	if p.mixer.Len() >= maxVoices {
		p.dev.Unlock()
		p.dropped++
		return
	}
	p.mixer.Add(withGain(s, p.cfg.gain(cue)))
	p.dev.Unlock()
	p.played++
}

// Stop silences everything and closes the device
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.started = false

	p.dev.Lock()
	p.mixer.Clear()
	p.dev.Unlock()

	if err := p.dev.Close(); err != nil {
		p.log.Warn().Err(err).Msg("audio close failed")
	}
	p.log.Debug().Uint64("played", p.played).Uint64("dropped", p.dropped).Msg("audio stopped")
}

// Stats returns how many cues were played and how many were dropped for exceeding the voice limit
func (p *Player) Stats() (played, dropped uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.dropped
}
