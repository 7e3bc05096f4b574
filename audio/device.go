package audio

import (
	"encoding/binary"
	"io"
	"math"
	"os/exec"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/termsim/core"
)

// device is an audio sink that pulls samples from one root streamer
type device interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close() error
	Name() string
}

// speakerDevice is the native sound device through beep's speaker
type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerDevice) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerDevice) Lock()                { speaker.Lock() }
func (speakerDevice) Unlock()              { speaker.Unlock() }
func (speakerDevice) Name() string         { return "speaker" }

func (speakerDevice) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// pipeDevice streams s16le PCM into a command-line player's stdin
type pipeDevice struct {
	backend *BackendConfig

	mu       sync.Mutex
	streamer beep.Streamer
	cmd      *exec.Cmd
	stdin    io.WriteCloser

	buf    [][2]float64
	period time.Duration
	stopCh chan struct{}
	doneCh chan struct{}
}

func newPipeDevice(backend *BackendConfig) *pipeDevice {
	return &pipeDevice{backend: backend}
}

func (p *pipeDevice) Name() string { return p.backend.Name }

func (p *pipeDevice) Init(rate beep.SampleRate, bufferSize int) error {
	cmd := exec.Command(p.backend.Path, p.backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return err
	}

	p.cmd = cmd
	p.stdin = stdin
	p.buf = make([][2]float64, bufferSize)
	p.period = rate.D(bufferSize)
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	core.Go(p.pump)
	return nil
}

// pump writes one buffer per period, silence when nothing is playing
func (p *pipeDevice) pump() {
	defer close(p.doneCh)
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	out := make([]byte, len(p.buf)*4)
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		clear(p.buf)
		if p.streamer != nil {
			p.streamer.Stream(p.buf)
		}
		p.mu.Unlock()

		encodeS16LE(out, p.buf)
		if _, err := p.stdin.Write(out); err != nil {
			return
		}
	}
}

func (p *pipeDevice) Play(s beep.Streamer) {
	p.mu.Lock()
	p.streamer = s
	p.mu.Unlock()
}

func (p *pipeDevice) Lock()   { p.mu.Lock() }
func (p *pipeDevice) Unlock() { p.mu.Unlock() }

func (p *pipeDevice) Close() error {
	if p.stopCh == nil {
		return nil
	}
	close(p.stopCh)
	p.stopCh = nil

	// A stalled player leaves pump blocked in Write; closing the pipe and
	// killing the process unblocks it before we wait
	p.stdin.Close()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	<-p.doneCh
	p.cmd.Wait()
	return nil
}

// encodeS16LE converts float stereo frames to interleaved signed 16-bit little endian
func encodeS16LE(dst []byte, samples [][2]float64) {
	for i, s := range samples {
		for ch := 0; ch < 2; ch++ {
			v := math.Max(-1, math.Min(1, s[ch]))
			binary.LittleEndian.PutUint16(dst[i*4+ch*2:], uint16(int16(v*math.MaxInt16)))
		}
	}
}
