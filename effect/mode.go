package effect

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects an effect
type Mode string

const (
	ModeHack    Mode = "hack"
	ModeLLM     Mode = "llm"
	ModeCyber   Mode = "cyber"
	ModeSegment Mode = "segment"
	ModeCrypto  Mode = "crypto"
)

// ErrInvalidMode matches any *InvalidModeError via errors.Is
var ErrInvalidMode = errors.New("invalid mode")

// InvalidModeError reports a mode name outside the supported set
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (valid modes: %s)", e.Mode, strings.Join(ModeNames(), ", "))
}

func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

type modeInfo struct {
	interval    time.Duration
	description string
	build       func(Config) Effect
}

var modeOrder = []Mode{ModeHack, ModeLLM, ModeCyber, ModeSegment, ModeCrypto}

var registry = map[Mode]modeInfo{
	ModeHack: {
		interval:    50 * time.Millisecond,
		description: "penetration test console",
		build:       func(c Config) Effect { return newHack(c) },
	},
	ModeLLM: {
		interval:    100 * time.Millisecond,
		description: "large language model training run",
		build:       func(c Config) Effect { return newLLM(c) },
	},
	ModeCyber: {
		interval:    50 * time.Millisecond,
		description: "katakana matrix rain",
		build:       func(c Config) Effect { return newCyber(c) },
	},
	ModeSegment: {
		interval:    100 * time.Millisecond,
		description: "segmentation model training run",
		build:       func(c Config) Effect { return newSegment(c) },
	},
	ModeCrypto: {
		interval:    200 * time.Millisecond,
		description: "crypto market dashboard",
		build:       func(c Config) Effect { return newCrypto(c) },
	},
}

// Modes lists every mode in CLI order
func Modes() []Mode {
	out := make([]Mode, len(modeOrder))
	copy(out, modeOrder)
	return out
}

// ModeNames lists mode names in CLI order
func ModeNames() []string {
	names := make([]string, len(modeOrder))
	for i, m := range modeOrder {
		names[i] = string(m)
	}
	return names
}

// ParseMode resolves a mode name. Matching is exact.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := registry[m]; !ok {
		return "", &InvalidModeError{Mode: s}
	}
	return m, nil
}

func (m Mode) String() string { return string(m) }

// DefaultInterval is the frame interval the mode was tuned for
func (m Mode) DefaultInterval() time.Duration {
	if info, ok := registry[m]; ok {
		return info.interval
	}
	return 100 * time.Millisecond
}

// Description is a one-line summary for help output
func (m Mode) Description() string {
	return registry[m].description
}
