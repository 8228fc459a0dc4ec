// Package timer tracks wall-clock time for a command and its stages.
package timer

import (
	"sync"
	"time"
)

// Timer measures total and per-stage elapsed time.
type Timer interface {
	// Start resets the timer and begins measuring.
	Start()
	// NewStage marks the beginning of a new stage.
	NewStage()
	// GetTiming returns the time since Start and since the current stage began.
	GetTiming() (total, stage time.Duration)
	// Stop freezes the timer. GetTiming keeps returning the frozen values.
	Stop()
}

// Clock returns the current time.
type Clock func() time.Time

type stopwatch struct {
	mu         sync.Mutex
	now        Clock
	start      time.Time
	stageStart time.Time
	stoppedAt  time.Time
}

// New returns a Timer backed by time.Now.
func New() Timer {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Timer reading time from clock.
func NewWithClock(clock Clock) Timer {
	return &stopwatch{now: clock}
}

func (s *stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.start = now
	s.stageStart = now
	s.stoppedAt = time.Time{}
}

func (s *stopwatch) NewStage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stageStart = s.now()
}

func (s *stopwatch) GetTiming() (time.Duration, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.start.IsZero() {
		return 0, 0
	}

	end := s.stoppedAt
	if end.IsZero() {
		end = s.now()
	}

	return end.Sub(s.start), end.Sub(s.stageStart)
}

func (s *stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.start.IsZero() || !s.stoppedAt.IsZero() {
		return
	}

	s.stoppedAt = s.now()
}
