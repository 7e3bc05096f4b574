// @focus: #lifecycle { timer }
package engine

import "time"

// tickScheduler computes frame deadlines anchored at the loop start.
// Deadline n is start + n*interval, so render cost and timer latency never accumulate.
type tickScheduler struct {
	start    time.Time
	interval time.Duration

	tick    uint64 // index of the current deadline
	skipped uint64
}

func newTickScheduler(start time.Time, interval time.Duration) *tickScheduler {
	return &tickScheduler{start: start, interval: interval}
}

// deadline returns the boundary for the current tick
func (s *tickScheduler) deadline() time.Time {
	return s.start.Add(time.Duration(s.tick) * s.interval)
}

// next moves to the following boundary and returns how long to wait for it.
// Boundaries already in the past are skipped rather than rendered in a burst;
// missed reports how many were dropped.
func (s *tickScheduler) next(now time.Time) (wait time.Duration, missed uint64) {
	s.tick++
	wait = s.deadline().Sub(now)
	if wait >= 0 {
		return wait, 0
	}

	// Smallest k with deadline >= now, so an exact boundary is kept
	missed = uint64((-wait + s.interval - 1) / s.interval)
	s.tick += missed
	s.skipped += missed
	return s.deadline().Sub(now), missed
}
