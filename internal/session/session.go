// Package session wires the timer, debounce scheduler, ingestion pipeline
// and result log for one contestant station.
package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/qrhunt/internal/debounce"
	"github.com/verte-zerg/qrhunt/internal/ingest"
	"github.com/verte-zerg/qrhunt/internal/logger"
	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
	"github.com/verte-zerg/qrhunt/internal/stopwatch"
	"github.com/verte-zerg/qrhunt/internal/store"
)

// DefaultTickInterval refreshes the displayed time at about 60 Hz.
const DefaultTickInterval = time.Second / 60

// Display receives everything the host UI renders.
type Display interface {
	OnTick(elapsed float64)
	OnResult(entry model.ResultEntry)
	OnDiagnostic(message string)
}

// Buffer is the text input owned by the host UI.
type Buffer interface {
	Value() string
	Reset()
}

// roundSetter is implemented by logs that tag rows with a round id.
type roundSetter interface {
	SetRound(id string)
}

// TickMsg drives the display refresh while the timer runs.
type TickMsg struct {
	ID  int
	tag int
}

// Options configures a Controller.
type Options struct {
	Timer        *stopwatch.Stopwatch
	Scheduler    *debounce.Scheduler
	Matcher      *matcher.Matcher
	Log          store.ResultLog
	Display      Display
	Buffer       Buffer
	Logger       *logger.Logger
	TickInterval time.Duration
}

// Controller owns all mutable state of a session. All methods must be called
// from the event loop goroutine.
type Controller struct {
	id        int
	timer     *stopwatch.Stopwatch
	scheduler *debounce.Scheduler
	matcher   *matcher.Matcher
	results   store.ResultLog
	display   Display
	buffer    Buffer
	log       *logger.Logger
	interval  time.Duration

	tickTag int
	history []model.ResultEntry
	roundID string
}

var lastID int64

// New validates opts and returns a controller with an idle timer.
func New(opts Options) (*Controller, error) {
	if opts.Matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if opts.Log == nil {
		return nil, fmt.Errorf("result log is required")
	}
	if opts.Display == nil {
		return nil, fmt.Errorf("display is required")
	}
	if opts.Buffer == nil {
		return nil, fmt.Errorf("input buffer is required")
	}
	if opts.Timer == nil {
		opts.Timer = stopwatch.New(nil)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = debounce.New(debounce.DefaultQuiet)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("session")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	c := &Controller{
		id:        int(atomic.AddInt64(&lastID, 1)),
		timer:     opts.Timer,
		scheduler: opts.Scheduler,
		matcher:   opts.Matcher,
		results:   opts.Log,
		display:   opts.Display,
		buffer:    opts.Buffer,
		log:       opts.Logger,
		interval:  opts.TickInterval,
	}
	c.newRound()
	return c, nil
}

// StartTimer starts the timer and the display refresh. No-op while running.
func (c *Controller) StartTimer() tea.Cmd {
	if c.timer.Running() {
		return nil
	}
	c.timer.Start()
	c.tickTag++
	c.log.Info().Str("round", c.roundID).Msg("timer started")
	c.display.OnTick(c.timer.Elapsed().Seconds())
	return c.tick(c.tickTag)
}

// StopTimer freezes the timer and stops the display refresh.
func (c *Controller) StopTimer() {
	if !c.timer.Running() {
		return
	}
	c.timer.Stop()
	c.tickTag++
	elapsed := c.timer.Elapsed().Seconds()
	c.log.Info().Str("round", c.roundID).Float64("elapsed", elapsed).Msg("timer stopped")
	c.display.OnTick(elapsed)
}

// ClearSession stops and resets the timer, drops any pending submission,
// the history and the input, and starts a new round. The log is untouched.
func (c *Controller) ClearSession() {
	c.StopTimer()
	c.timer.Reset()
	c.scheduler.Cancel()
	c.history = nil
	c.buffer.Reset()
	c.newRound()
	c.display.OnTick(0)
}

// NotifyChanged tells the controller the input buffer changed.
func (c *Controller) NotifyChanged() tea.Cmd {
	if c.buffer.Value() == "" {
		return nil
	}
	return c.scheduler.Notify()
}

// Update handles the controller's own messages. The returned error is a
// failed log append; the batch is kept in the buffer in that case.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, error) {
	switch msg := msg.(type) {
	case debounce.FireMsg:
		anchor, ok := c.scheduler.Fire(msg)
		if !ok {
			return nil, nil
		}
		return nil, c.process(anchor)
	case TickMsg:
		if msg.ID != c.id || msg.tag != c.tickTag || !c.timer.Running() {
			return nil, nil
		}
		c.display.OnTick(c.timer.Elapsed().Seconds())
		return c.tick(msg.tag), nil
	}
	return nil, nil
}

// History returns processed entries, most recent first.
func (c *Controller) History() []model.ResultEntry {
	out := make([]model.ResultEntry, len(c.history))
	copy(out, c.history)
	return out
}

// Running reports whether the timer runs.
func (c *Controller) Running() bool {
	return c.timer.Running()
}

// Pending reports whether a submission is waiting for the quiet period.
func (c *Controller) Pending() bool {
	return c.scheduler.Pending()
}

// RoundID identifies the current round; it changes on ClearSession.
func (c *Controller) RoundID() string {
	return c.roundID
}

func (c *Controller) process(anchor time.Time) error {
	batch, ok := ingest.Process(c.buffer.Value(), c.matcher, c.timer, anchor)
	if !ok {
		c.log.Debug().Msg("empty batch ignored")
		return nil
	}
	if !c.timer.Started() {
		c.log.Warn().Msg("batch processed before the timer was started")
	}
	if err := c.results.Append(context.Background(), batch.Entry); err != nil {
		c.log.Error().Err(err).Str("round", c.roundID).Msg("failed to append result")
		return fmt.Errorf("failed to append result: %w", err)
	}
	for _, msg := range batch.Diagnostics {
		c.log.Warn().Str("round", c.roundID).Msg(msg)
		c.display.OnDiagnostic(msg)
	}
	c.log.Info().
		Str("round", c.roundID).
		Float64("elapsed", batch.Entry.ElapsedSeconds).
		Int("points", batch.Entry.TotalPoints).
		Strs("hits", batch.Entry.HitNames).
		Msg("result recorded")
	c.history = append([]model.ResultEntry{batch.Entry}, c.history...)
	c.display.OnResult(batch.Entry)
	c.buffer.Reset()
	return nil
}

func (c *Controller) newRound() {
	c.roundID = uuid.NewString()
	if rs, ok := c.results.(roundSetter); ok {
		rs.SetRound(c.roundID)
	}
}

func (c *Controller) tick(tag int) tea.Cmd {
	id := c.id
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}
