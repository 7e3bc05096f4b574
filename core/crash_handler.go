// @lixen: #focus{sys[term,crash]}
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/termsim/terminal"
)

var (
	crashMu      sync.Mutex
	crashRelease func() error
	crashLog     = zerolog.Nop()

	// Swapped in tests
	crashOut   io.Writer = os.Stderr
	crashExit            = os.Exit
	crashReset           = func() { terminal.EmergencyReset(os.Stdout) }
)

// RegisterRelease installs the active sink's Release so a crash restores the
// terminal the same way a normal exit does. Passing nil unregisters it.
func RegisterRelease(release func() error) {
	crashMu.Lock()
	crashRelease = release
	crashMu.Unlock()
}

// SetLogger records crashes in the debug log as well as on stderr
func SetLogger(l zerolog.Logger) {
	crashMu.Lock()
	crashLog = l
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler: it restores the terminal, prints
// the stack trace and exits with status 1
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	release, log := crashRelease, crashLog
	crashMu.Unlock()

	// Escape sequences first, then termios, even if the sink's own Release worked
	if release != nil {
		release()
	}
	crashReset()

	stack := debug.Stack()
	log.Error().Interface("panic", r).Bytes("stack", stack).Msg("crash")

	fmt.Fprintf(crashOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", stack)
	if f, ok := crashOut.(*os.File); ok {
		f.Sync()
	}

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
