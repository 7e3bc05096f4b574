package engine

import (
	"sync"
	"time"
)

// MockClock is a virtual clock for deterministic loop tests.
// After advances virtual time by the requested duration and fires at once,
// so a loop under test runs as fast as the CPU allows while seeing exact times.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	waits       []time.Duration
}

// NewMockClock creates a mock clock at the given start time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{currentTime: startTime}
}

// Now returns the current virtual time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// Advance moves virtual time forward, modelling work that takes d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// After records the wait, advances by it and returns an already fired channel
func (m *MockClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.waits = append(m.waits, d)
	if d > 0 {
		m.currentTime = m.currentTime.Add(d)
	}
	ch := make(chan time.Time, 1)
	ch <- m.currentTime
	return ch
}

// Waits returns every duration passed to After, in call order
func (m *MockClock) Waits() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.waits))
	copy(out, m.waits)
	return out
}
