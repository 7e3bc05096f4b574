package engine

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/termsim/render"
	"github.com/lixenwraith/termsim/terminal"
)

// RecordingSink is an in-memory terminal.Sink for loop tests.
// It records every call and can be told to fail a given operation.
type RecordingSink struct {
	mu     sync.Mutex
	width  int
	height int
	ops    []string

	// FailOp makes the FailAfter-th call (1-based) of that operation return FailErr
	FailOp    string
	FailAfter int
	FailErr   error
	counts    map[string]int

	acquired bool
	released bool
}

// NewRecordingSink creates a sink reporting the given size
func NewRecordingSink(width, height int) *RecordingSink {
	return &RecordingSink{width: width, height: height, counts: make(map[string]int)}
}

func (s *RecordingSink) record(op, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, entry)
	s.counts[op]++
	if s.FailOp == op && s.counts[op] >= s.FailAfter && s.FailErr != nil {
		return s.FailErr
	}
	return nil
}

func (s *RecordingSink) Acquire() error {
	err := s.record("acquire", "acquire")
	s.mu.Lock()
	s.acquired = true
	s.mu.Unlock()
	return err
}

func (s *RecordingSink) Release() error {
	err := s.record("release", "release")
	s.mu.Lock()
	s.released = true
	s.mu.Unlock()
	return err
}

func (s *RecordingSink) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the reported size, as SIGWINCH would
func (s *RecordingSink) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *RecordingSink) Clear() error { return s.record("clear", "clear") }

func (s *RecordingSink) MoveCursor(row, col int) error {
	return s.record("move", fmt.Sprintf("move %d %d", row, col))
}

func (s *RecordingSink) Write(text string, _ terminal.Style) error {
	return s.record("write", "write "+text)
}

func (s *RecordingSink) Flush() error { return s.record("flush", "flush") }

// Ops returns the recorded calls in order
func (s *RecordingSink) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ops))
	copy(out, s.ops)
	return out
}

// Released reports whether Release has been called
func (s *RecordingSink) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// FuncEffect adapts a function to the effect capability
type FuncEffect func() render.Frame

func (f FuncEffect) NextFrame() render.Frame { return f() }
