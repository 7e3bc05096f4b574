package audio

import (
	"fmt"
	"strconv"

	"github.com/lixenwraith/termsim/render"
)

// Config holds playback levels. Volumes are linear gains in 0..1.
type Config struct {
	SampleRate   int
	MasterVolume float64
	CueVolumes   map[render.Cue]float64
}

// DefaultConfig returns levels tuned so typing clicks stay under alerts and chimes
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   44100,
		MasterVolume: 0.5,
		CueVolumes: map[render.Cue]float64{
			render.CueKey:   0.25,
			render.CueAlert: 0.6,
			render.CueChime: 0.5,
		},
	}
}

// Levels are the playback settings exposed on the command line
type Levels struct {
	Master     int               // percent of full scale, 0-100
	Cues       map[string]string // cue name to linear gain, e.g. key=0.1
	SampleRate int
}

var cueNames = []render.Cue{render.CueKey, render.CueAlert, render.CueChime}

// NewConfig overlays command-line levels on the defaults.
// Out-of-range values are rejected rather than clamped so typos surface.
func NewConfig(l Levels) (*Config, error) {
	cfg := DefaultConfig()

	if l.Master < 0 || l.Master > 100 {
		return nil, fmt.Errorf("volume must be 0-100, got %d", l.Master)
	}
	cfg.MasterVolume = float64(l.Master) / 100.0

	for name, raw := range l.Cues {
		cue, ok := parseCue(name)
		if !ok {
			return nil, fmt.Errorf("unknown cue %q (valid cues: key, alert, chime)", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("cue volume %s=%s must be a number in 0..1", name, raw)
		}
		cfg.CueVolumes[cue] = v
	}

	if l.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", l.SampleRate)
	}
	cfg.SampleRate = l.SampleRate

	return cfg, nil
}

func parseCue(name string) (render.Cue, bool) {
	for _, c := range cueNames {
		if c.String() == name {
			return c, true
		}
	}
	return render.CueNone, false
}

// gain is the final linear volume for a cue
func (c *Config) gain(cue render.Cue) float64 {
	return clampVolume(c.MasterVolume * c.CueVolumes[cue])
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
