// Package debounce coalesces bursts of change signals into one event.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultQuiet is the default quiet period.
const DefaultQuiet = 300 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FireMsg is delivered when an armed delay expires. Only the message of the
// most recent arming is honored by Fire.
type FireMsg struct {
	ID  int
	tag int
}

// Scheduler is a re-armable one-shot delay. Every Notify re-arms the delay
// and the first Notify of a burst fixes the burst anchor.
type Scheduler struct {
	id      int
	quiet   time.Duration
	now     func() time.Time
	pending bool
	tag     int
	anchor  time.Time
}

// New returns a scheduler with the given quiet period.
func New(quiet time.Duration) *Scheduler {
	return NewWithClock(quiet, nil)
}

// NewWithClock is New with an explicit clock for anchors.
func NewWithClock(quiet time.Duration, now func() time.Time) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{id: nextID(), quiet: quiet, now: now}
}

// Pending reports whether a delay is armed.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Notify records a change. It anchors a new burst when nothing is pending and
// re-arms the delay either way. Earlier armings become stale.
func (s *Scheduler) Notify() tea.Cmd {
	if !s.pending {
		s.anchor = s.now()
		s.pending = true
	}
	s.tag++
	return s.schedule(s.tag)
}

// Fire consumes an expired delay. It returns the burst anchor and true only
// for the latest arming of this scheduler; stale or foreign messages are ignored.
func (s *Scheduler) Fire(msg FireMsg) (time.Time, bool) {
	if msg.ID != s.id || !s.pending || msg.tag != s.tag {
		return time.Time{}, false
	}
	anchor := s.anchor
	s.pending = false
	s.anchor = time.Time{}
	return anchor, true
}

// Cancel discards the pending delay without firing.
func (s *Scheduler) Cancel() {
	s.pending = false
	s.anchor = time.Time{}
	s.tag++
}

func (s *Scheduler) schedule(tag int) tea.Cmd {
	id := s.id
	return tea.Tick(s.quiet, func(time.Time) tea.Msg {
		return FireMsg{ID: id, tag: tag}
	})
}
