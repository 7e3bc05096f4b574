package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval = errors.New("frame interval must be positive")
	ErrDriverStopped   = errors.New("driver already stopped")
	ErrDriverRunning   = errors.New("driver already running")
	ErrNilArgument     = errors.New("effect and sink are required")
)

// OutputFailure reports a terminal write error. Run returns it only after
// the terminal has been restored.
type OutputFailure struct {
	Op  string // sink operation: acquire, clear, move, write, flush, release
	Err error
}

func (e *OutputFailure) Error() string {
	return fmt.Sprintf("terminal output failed during %s: %v", e.Op, e.Err)
}

func (e *OutputFailure) Unwrap() error {
	return e.Err
}
