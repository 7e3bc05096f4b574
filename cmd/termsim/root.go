package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsim/audio"
	"github.com/lixenwraith/termsim/effect"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// options are the parsed command-line flags
type options struct {
	mode     string
	interval time.Duration
	seed     int64
	seedSet  bool
	backend  string
	color    string
	duration time.Duration
	sound    bool
	debug    bool
	logDir   string

	// Audio levels, only meaningful with --sound
	levels      audio.Levels
	levelsSet   bool
	audioConfig *audio.Config
}

// usageError marks a failure caused by bad command-line input
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{fmt.Errorf(format, args...)}
}

var (
	audioFlags = []string{"volume", "cue-volume", "sample-rate"}
	backends   = []string{"ansi", "tcell"}
	colorModes = []string{"auto", "256", "truecolor"}
)

// runFunc executes the animation once flags are parsed and validated
type runFunc func(ctx context.Context, o *options, stdout, stderr io.Writer) error

func newRootCmd(ctx context.Context, run runFunc, stdout, stderr io.Writer) (*cobra.Command, *bool) {
	o := &options{logDir: logDir}
	started := new(bool)

	var modeHelp []string
	for _, m := range effect.Modes() {
		modeHelp = append(modeHelp, fmt.Sprintf("  %-8s %s", m, m.Description()))
	}

	cmd := &cobra.Command{
		Use:   "termsim --mode <" + strings.Join(effect.ModeNames(), "|") + ">",
		Short: "Fullscreen terminal animations that look busy",
		Long: "termsim renders an endless animation in the alternate screen until Ctrl+C, q or Esc.\n\nModes:\n" +
			strings.Join(modeHelp, "\n"),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			*started = true
			o.seedSet = cmd.Flags().Changed("seed")
			for _, name := range audioFlags {
				o.levelsSet = o.levelsSet || cmd.Flags().Changed(name)
			}
			if err := o.validate(); err != nil {
				return err
			}
			return run(ctx, o, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&o.mode, "mode", "m", "", "animation mode: "+strings.Join(effect.ModeNames(), ", "))
	f.DurationVar(&o.interval, "interval", 0, "frame interval (default depends on mode)")
	f.Int64Var(&o.seed, "seed", 0, "random seed (default time-based)")
	f.StringVar(&o.backend, "backend", "ansi", "terminal backend: "+strings.Join(backends, ", "))
	f.StringVar(&o.color, "color", "auto", "color mode: "+strings.Join(colorModes, ", "))
	f.DurationVar(&o.duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	f.BoolVar(&o.sound, "sound", false, "play sound cues")
	f.IntVar(&o.levels.Master, "volume", 50, "master volume 0-100 (with --sound)")
	f.StringToStringVar(&o.levels.Cues, "cue-volume", nil, "per-cue gain 0..1, e.g. key=0.1,alert=0.8 (with --sound)")
	f.IntVar(&o.levels.SampleRate, "sample-rate", 44100, "audio sample rate in Hz (with --sound)")
	f.BoolVar(&o.debug, "debug", false, "write a debug log to "+logDir+"/"+logFileName)

	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.RegisterFlagCompletionFunc("mode", fixedCompletion(effect.ModeNames()))
	_ = cmd.RegisterFlagCompletionFunc("backend", fixedCompletion(backends))
	_ = cmd.RegisterFlagCompletionFunc("color", fixedCompletion(colorModes))

	return cmd, started
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// validate checks everything that can be rejected before touching the terminal
func (o *options) validate() error {
	if _, err := effect.ParseMode(o.mode); err != nil {
		return &usageError{err}
	}
	if !contains(backends, o.backend) {
		return usagef("invalid backend %q (valid backends: %s)", o.backend, strings.Join(backends, ", "))
	}
	if !contains(colorModes, o.color) {
		return usagef("invalid color mode %q (valid: %s)", o.color, strings.Join(colorModes, ", "))
	}
	if o.interval < 0 {
		return usagef("interval must be positive, got %s", o.interval)
	}
	if o.duration < 0 {
		return usagef("duration must not be negative, got %s", o.duration)
	}
	if !o.sound {
		if o.levelsSet {
			return usagef("audio levels (--%s) require --sound", strings.Join(audioFlags, ", --"))
		}
		return nil
	}
	cfg, err := audio.NewConfig(o.levels)
	if err != nil {
		return &usageError{err}
	}
	o.audioConfig = cfg
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// execute runs the CLI and maps the outcome to a process exit code
func execute(ctx context.Context, args []string, run runFunc, stdout, stderr io.Writer) int {
	cmd, started := newRootCmd(ctx, run, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(stderr, "Error: %v\n", err)

	var ue *usageError
	if errors.As(err, &ue) || !*started {
		if errors.Is(err, effect.ErrInvalidMode) || strings.Contains(err.Error(), `"mode"`) {
			fmt.Fprintf(stderr, "Valid modes: %s\n", strings.Join(effect.ModeNames(), ", "))
		}
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
		return exitUsage
	}
	return exitFailed
}
