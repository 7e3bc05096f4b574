// Command termsim plays fullscreen terminal animations that imitate busy
// technical work: penetration tests, model training runs, matrix rain and a
// market dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/termsim/core"
)

func main() {
	// Terminal is reset even if a panic escapes the driver's own restore
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	// SIGINT arrives here only when the terminal is not in raw mode, e.g. before
	// Acquire or when stdin is not a tty
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	code := execute(ctx, os.Args[1:], runAnimation, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
