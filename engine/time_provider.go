package engine

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Clock is the time source of the render loop.
// clockz.Clock satisfies it; tests substitute a MockClock or a clockz.FakeClock.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// defaultClock is the wall clock with monotonic readings
var defaultClock Clock = clockz.RealClock
