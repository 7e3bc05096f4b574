package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	logDir      = "logs"
	logFileName = "termsim.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging opens logs/termsim.log when debug is set, rotating a file over
// maxLogSize aside first. Without debug the logger discards everything and the
// returned closer is a no-op. Nothing is ever logged to stdout or stderr, they
// belong to the animation.
func setupLogging(debug bool, dir string) (zerolog.Logger, io.Closer, error) {
	if !debug {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("termsim-%s.log", time.Now().Format("20060102-150405")))
		// Rotation failure only means the file keeps growing
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(f).With().Timestamp().Str("app", "termsim").Logger().Level(zerolog.DebugLevel)
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
