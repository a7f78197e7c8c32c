package session

import (
	"context"
	"errors"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/qrhunt/internal/catalog"
	"github.com/verte-zerg/qrhunt/internal/debounce"
	"github.com/verte-zerg/qrhunt/internal/matcher"
	"github.com/verte-zerg/qrhunt/internal/model"
	"github.com/verte-zerg/qrhunt/internal/stopwatch"
	"github.com/verte-zerg/qrhunt/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

type recordingDisplay struct {
	ticks       []float64
	results     []model.ResultEntry
	diagnostics []string
}

func (d *recordingDisplay) OnTick(elapsed float64)           { d.ticks = append(d.ticks, elapsed) }
func (d *recordingDisplay) OnResult(entry model.ResultEntry) { d.results = append(d.results, entry) }
func (d *recordingDisplay) OnDiagnostic(message string)      { d.diagnostics = append(d.diagnostics, message) }

type textBuffer struct {
	text string
}

func (b *textBuffer) Value() string { return b.text }
func (b *textBuffer) Reset()        { b.text = "" }

type memoryLog struct {
	entries []model.ResultEntry
	rounds  []string
	round   string
	err     error
}

func (l *memoryLog) Append(_ context.Context, entry model.ResultEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	l.rounds = append(l.rounds, l.round)
	return nil
}

func (l *memoryLog) Close() error { return nil }

func (l *memoryLog) SetRound(id string) { l.round = id }

type fixture struct {
	ctrl    *Controller
	clock   *fakeClock
	display *recordingDisplay
	buffer  *textBuffer
	sched   *debounce.Scheduler
}

func newFixture(t *testing.T, log store.ResultLog) *fixture {
	t.Helper()
	cat, err := catalog.New([]model.Entity{{Name: "Deer", Points: 40}, {Name: "Human", Points: -100}})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	m, err := matcher.New(matcher.DefaultPrefix, cat)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	f := &fixture{
		clock:   clock,
		display: &recordingDisplay{},
		buffer:  &textBuffer{},
		sched:   debounce.NewWithClock(time.Millisecond, clock.now),
	}
	f.ctrl, err = New(Options{
		Timer:        stopwatch.New(clock.now),
		Scheduler:    f.sched,
		Matcher:      m,
		Log:          log,
		Display:      f.display,
		Buffer:       f.buffer,
		TickInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return f
}

// typeText appends text to the buffer and returns the debounce fire for it.
func (f *fixture) typeText(t *testing.T, text string) debounce.FireMsg {
	t.Helper()
	f.buffer.text += text
	cmd := f.ctrl.NotifyChanged()
	if cmd == nil {
		t.Fatalf("expected debounce command")
	}
	return cmd().(debounce.FireMsg)
}

func TestSubmissionFlow(t *testing.T) {
	log := &memoryLog{}
	f := newFixture(t, log)
	f.ctrl.StartTimer()

	f.clock.t = f.clock.t.Add(5 * time.Second)
	var fires []debounce.FireMsg
	for _, line := range []string{"ZV:Deer:0\n", "ZV:Deer:0\n", "ZV:Human:1\n", "ZV:Fox:0\n", "garbage"} {
		fires = append(fires, f.typeText(t, line))
		f.clock.t = f.clock.t.Add(100 * time.Millisecond)
	}
	for _, msg := range fires {
		if _, err := f.ctrl.Update(msg); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	if len(log.entries) != 1 {
		t.Fatalf("expected exactly one logged entry, got %d", len(log.entries))
	}
	entry := log.entries[0]
	if !reflect.DeepEqual(entry.HitNames, []string{"Deer", "Human"}) || entry.TotalPoints != -60 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if math.Abs(entry.ElapsedSeconds-5.0) > 1e-9 {
		t.Fatalf("expected elapsed anchored at first keystroke, got %f", entry.ElapsedSeconds)
	}
	wantDiag := []string{"unknown entity 'ZV:Fox:0'", "failed to match 'garbage'"}
	if !reflect.DeepEqual(f.display.diagnostics, wantDiag) {
		t.Fatalf("unexpected diagnostics: %v", f.display.diagnostics)
	}
	if len(f.display.results) != 1 {
		t.Fatalf("expected one displayed result")
	}
	if f.buffer.text != "" {
		t.Fatalf("expected buffer cleared, got %q", f.buffer.text)
	}
	if log.rounds[0] != f.ctrl.RoundID() {
		t.Fatalf("expected entry tagged with current round")
	}
}

func TestHistoryMostRecentFirst(t *testing.T) {
	f := newFixture(t, &memoryLog{})
	f.ctrl.StartTimer()
	for _, text := range []string{"ZV:Deer", "ZV:Human"} {
		msg := f.typeText(t, text)
		if _, err := f.ctrl.Update(msg); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	history := f.ctrl.History()
	if len(history) != 2 || history[0].TotalPoints != -100 || history[1].TotalPoints != 40 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestEmptyBufferDoesNotArmOrLog(t *testing.T) {
	log := &memoryLog{}
	f := newFixture(t, log)
	if cmd := f.ctrl.NotifyChanged(); cmd != nil {
		t.Fatalf("expected no debounce for empty buffer")
	}
	msg := f.typeText(t, "ZV:Deer")
	f.buffer.Reset()
	if _, err := f.ctrl.Update(msg); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(log.entries) != 0 || len(f.display.results) != 0 {
		t.Fatalf("expected nothing recorded for empty buffer")
	}
}

func TestWhitespaceBufferLogsZeroEntry(t *testing.T) {
	log := &memoryLog{}
	f := newFixture(t, log)
	if _, err := f.ctrl.Update(f.typeText(t, "   ")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(log.entries) != 1 || log.entries[0].TotalPoints != 0 || len(log.entries[0].HitNames) != 0 {
		t.Fatalf("expected one zero entry, got %+v", log.entries)
	}
	if !reflect.DeepEqual(f.display.diagnostics, []string{"failed to match '   '"}) {
		t.Fatalf("unexpected diagnostics: %q", f.display.diagnostics)
	}
}

func TestClearSessionCancelsPendingAndKeepsLog(t *testing.T) {
	dir := t.TempDir()
	csvLog, err := store.NewCSVStore(dir, nil)
	if err != nil {
		t.Fatalf("open csv store: %v", err)
	}
	f := newFixture(t, csvLog)
	f.ctrl.StartTimer()
	f.clock.t = f.clock.t.Add(2 * time.Second)
	if _, err := f.ctrl.Update(f.typeText(t, "ZV:Deer:1")); err != nil {
		t.Fatalf("update: %v", err)
	}
	path := csvLog.Path(time.Now())
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	pending := f.typeText(t, "ZV:Human")
	oldRound := f.ctrl.RoundID()
	f.ctrl.ClearSession()
	if _, err := f.ctrl.Update(pending); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("expected log unchanged, before %q after %q", before, after)
	}
	if !strings.HasPrefix(string(after), "2.00,40,Deer") {
		t.Fatalf("unexpected log content %q", after)
	}
	if len(f.ctrl.History()) != 0 {
		t.Fatalf("expected history cleared")
	}
	if f.ctrl.Running() || f.ctrl.timer.Elapsed() != 0 {
		t.Fatalf("expected timer reset")
	}
	if f.buffer.text != "" {
		t.Fatalf("expected buffer cleared")
	}
	if f.ctrl.RoundID() == oldRound {
		t.Fatalf("expected a new round id")
	}
}

func TestAppendFailureKeepsBuffer(t *testing.T) {
	boom := errors.New("disk full")
	f := newFixture(t, &memoryLog{err: boom})
	f.ctrl.StartTimer()
	_, err := f.ctrl.Update(f.typeText(t, "ZV:Deer\ngarbage"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected append error, got %v", err)
	}
	if f.buffer.text != "ZV:Deer\ngarbage" {
		t.Fatalf("expected buffer kept after failure, got %q", f.buffer.text)
	}
	if len(f.ctrl.History()) != 0 || len(f.display.results) != 0 {
		t.Fatalf("expected no result recorded after failure")
	}
	if len(f.display.diagnostics) != 0 {
		t.Fatalf("expected no diagnostics for an unrecorded batch, got %v", f.display.diagnostics)
	}
}

func TestTickRefreshesOnlyWhileRunning(t *testing.T) {
	f := newFixture(t, &memoryLog{})
	cmd := f.ctrl.StartTimer()
	if cmd == nil {
		t.Fatalf("expected tick command")
	}
	if again := f.ctrl.StartTimer(); again != nil {
		t.Fatalf("expected start to be a no-op while running")
	}
	tick := cmd().(TickMsg)
	f.clock.t = f.clock.t.Add(1500 * time.Millisecond)
	next, err := f.ctrl.Update(tick)
	if err != nil || next == nil {
		t.Fatalf("expected next tick, got %v (err=%v)", next, err)
	}
	last := f.display.ticks[len(f.display.ticks)-1]
	if math.Abs(last-1.5) > 1e-9 {
		t.Fatalf("expected tick at 1.5s, got %f", last)
	}

	stale := next().(TickMsg)
	f.ctrl.StopTimer()
	count := len(f.display.ticks)
	if follow, _ := f.ctrl.Update(stale); follow != nil {
		t.Fatalf("expected stale tick to stop the refresh")
	}
	if len(f.display.ticks) != count {
		t.Fatalf("expected no display update from stale tick")
	}
}
