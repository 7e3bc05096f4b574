package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/termsim/audio"
	"github.com/lixenwraith/termsim/core"
	"github.com/lixenwraith/termsim/effect"
	"github.com/lixenwraith/termsim/engine"
	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

// runAnimation owns one full session: logging, sink, optional audio, the
// driver run, and the closing summary once the terminal is restored
func runAnimation(ctx context.Context, o *options, stdout, stderr io.Writer) error {
	mode, err := effect.ParseMode(o.mode)
	if err != nil {
		return &usageError{err}
	}

	logger, closer, err := setupLogging(o.debug, o.logDir)
	if err != nil {
		return err
	}
	defer closer.Close()
	core.SetLogger(logger)

	seed := o.seed
	if !o.seedSet {
		seed = time.Now().UnixNano()
	}
	interval := o.interval
	if interval == 0 {
		interval = mode.DefaultInterval()
	}
	colorMode := terminal.ParseColorMode(o.color)
	logger.Info().
		Str("mode", mode.String()).
		Int64("seed", seed).
		Dur("interval", interval).
		Str("backend", o.backend).
		Str("color", colorMode.String()).
		Msg("session start")

	sink, err := newSink(o.backend, colorMode)
	if err != nil {
		logger.Error().Err(err).Msg("terminal init failed")
		return fmt.Errorf("terminal init: %w", err)
	}
	core.RegisterRelease(sink.Release)
	defer core.RegisterRelease(nil)

	fx, err := effect.New(mode, effect.Config{
		Rand:     rand.New(rand.NewSource(seed)),
		Viewport: sink,
		Interval: interval,
		Start:    time.Now(),
	})
	if err != nil {
		return &usageError{err}
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	var player *audio.Player
	if o.sound {
		player = audio.NewPlayer(o.audioConfig, logger)
		if err := player.Start(); err != nil {
			logger.Warn().Err(err).Msg("audio unavailable, running silent")
			player = nil
		} else {
			defer player.Stop()
			opts = append(opts, engine.WithFrameHook(func(_ uint64, f render.Frame) {
				player.Play(f.Cue)
			}))
		}
	}

	if o.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.duration)
		defer cancel()
	}

	driver := engine.NewDriver(opts...)
	runErr := driver.Run(ctx, fx, interval, sink)
	stats := driver.Stats()
	end := logger.Info().Uint64("frames", stats.Frames).Uint64("skipped", stats.Skipped)
	if player != nil {
		played, dropped := player.Stats()
		end = end.Uint64("cues_played", played).Uint64("cues_dropped", dropped)
	}
	end.Err(runErr).Msg("session end")
	if runErr != nil {
		return runErr
	}

	if s, ok := fx.(effect.Summarizer); ok {
		writeSummary(stdout, s.Summary(), isTerminal(stdout))
	}
	return nil
}

// newSink builds the terminal backend chosen by --backend
func newSink(backend string, cm terminal.ColorMode) (terminal.Sink, error) {
	switch backend {
	case "tcell":
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		return terminal.NewTcell(screen), nil
	default:
		return terminal.NewANSI(terminal.NewStdBackend(), cm), nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeSummary prints the closing report on the normal screen, in color only
// when the output is a terminal
func writeSummary(w io.Writer, lines []render.Line, colorize bool) {
	for _, l := range lines {
		for _, s := range l {
			if !colorize || s.Style.Default && s.Style.Attrs == 0 {
				fmt.Fprint(w, s.Text)
				continue
			}
			c := summaryColor(s.Style)
			c.EnableColor()
			c.Fprint(w, s.Text)
		}
		fmt.Fprintln(w)
	}
}

func summaryColor(st terminal.Style) *color.Color {
	var c *color.Color
	if st.Default {
		c = color.New()
	} else {
		c = color.RGB(int(st.Fg.R), int(st.Fg.G), int(st.Fg.B))
	}
	if st.Attrs&terminal.AttrBold != 0 {
		c.Add(color.Bold)
	}
	if st.Attrs&terminal.AttrDim != 0 {
		c.Add(color.Faint)
	}
	return c
}
