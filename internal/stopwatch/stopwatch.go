// Package stopwatch implements the session timer.
package stopwatch

import "time"

// Stopwatch is an idle/running/stopped timer over a monotonic clock.
// It is not safe for concurrent use; the owning event loop serializes access.
type Stopwatch struct {
	now         func() time.Time
	startTime   time.Time
	started     bool
	running     bool
	accumulated time.Duration
}

// New returns an idle stopwatch. A nil clock uses time.Now, whose readings
// carry the monotonic clock.
func New(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

// Start begins timing from now. It is a no-op while running.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.startTime = s.now()
	s.started = true
	s.running = true
}

// Stop freezes the elapsed time. It is a no-op unless running.
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.accumulated = s.now().Sub(s.startTime)
	s.running = false
}

// Reset returns to the idle state with zero elapsed time.
func (s *Stopwatch) Reset() {
	s.accumulated = 0
	s.running = false
	s.started = false
	s.startTime = time.Time{}
}

// Elapsed returns the live elapsed time while running, otherwise the frozen value.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.now().Sub(s.startTime)
	}
	return s.accumulated
}

// AnchorTime returns the start time currently in effect and whether the
// stopwatch has been started since the last reset.
func (s *Stopwatch) AnchorTime() (time.Time, bool) {
	return s.startTime, s.started
}

// Running reports whether the stopwatch is running.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Started reports whether the stopwatch left the idle state.
func (s *Stopwatch) Started() bool {
	return s.started
}
