package audio

import (
	"errors"
	"os/exec"
	"strconv"
)

// BackendType identifies a command-line audio player
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
)

// BackendConfig describes how to start a player reading raw s16le stereo on stdin
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// ErrNoAudioBackend means neither the sound device nor any pipe player is available
var ErrNoAudioBackend = errors.New("no compatible audio backend found")

// DetectBackend searches PATH for a player.
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay
func DetectBackend(rate int) (*BackendConfig, error) {
	return detectBackend(exec.LookPath, rate)
}

func detectBackend(lookPath func(string) (string, error), rate int) (*BackendConfig, error) {
	r := strconv.Itoa(rate)
	candidates := []BackendConfig{
		{BackendPulse, "pacat", "pacat", []string{
			"--raw", "--format=s16le", "--rate=" + r, "--channels=2", "--latency-msec=50", "--playback",
		}},
		{BackendPipeWire, "pw-cat", "pw-cat", []string{
			"--playback", "--format=s16", "--rate=" + r, "--channels=2", "--latency=50ms", "-",
		}},
		{BackendALSA, "aplay", "aplay", []string{
			"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q",
		}},
		{BackendSoX, "sox", "play", []string{
			"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", r, "-", "-d", "-q",
		}},
		{BackendFFplay, "ffplay", "ffplay", []string{
			"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", r,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
		}},
	}

	for _, c := range candidates {
		if path, err := lookPath(c.Path); err == nil {
			c.Path = path
			return &c, nil
		}
	}
	return nil, ErrNoAudioBackend
}
