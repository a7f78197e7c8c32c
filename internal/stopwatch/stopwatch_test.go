package stopwatch

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newFake() (*Stopwatch, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	return New(clock.now), clock
}

func TestIdleStopwatch(t *testing.T) {
	sw, clock := newFake()
	clock.advance(time.Minute)
	if sw.Running() || sw.Started() {
		t.Fatalf("expected idle stopwatch")
	}
	if sw.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed, got %s", sw.Elapsed())
	}
	if _, ok := sw.AnchorTime(); ok {
		t.Fatalf("expected no anchor while idle")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	sw, clock := newFake()
	sw.Start()
	first, _ := sw.AnchorTime()
	clock.advance(2 * time.Second)
	sw.Start()
	second, _ := sw.AnchorTime()
	if !first.Equal(second) {
		t.Fatalf("expected start time to be unchanged while running")
	}
	if sw.Elapsed() != 2*time.Second {
		t.Fatalf("expected 2s elapsed, got %s", sw.Elapsed())
	}
}

func TestStopFreezesElapsed(t *testing.T) {
	sw, clock := newFake()
	sw.Start()
	clock.advance(3 * time.Second)
	sw.Stop()
	clock.advance(10 * time.Second)
	if sw.Running() {
		t.Fatalf("expected stopped")
	}
	if sw.Elapsed() != 3*time.Second {
		t.Fatalf("expected 3s elapsed, got %s", sw.Elapsed())
	}
	sw.Stop()
	if sw.Elapsed() != 3*time.Second {
		t.Fatalf("expected second stop to be a no-op")
	}
}

func TestStartAfterStopRestartsFromNow(t *testing.T) {
	sw, clock := newFake()
	sw.Start()
	clock.advance(3 * time.Second)
	sw.Stop()
	clock.advance(5 * time.Second)
	sw.Start()
	clock.advance(time.Second)
	if sw.Elapsed() != time.Second {
		t.Fatalf("expected 1s elapsed, got %s", sw.Elapsed())
	}
	anchor, ok := sw.AnchorTime()
	if !ok || !anchor.Equal(time.Unix(1008, 0)) {
		t.Fatalf("unexpected anchor %v (ok=%v)", anchor, ok)
	}
}

func TestResetFromEveryState(t *testing.T) {
	cases := map[string]func(*Stopwatch, *fakeClock){
		"idle": func(*Stopwatch, *fakeClock) {},
		"running": func(sw *Stopwatch, c *fakeClock) {
			sw.Start()
			c.advance(time.Second)
		},
		"stopped": func(sw *Stopwatch, c *fakeClock) {
			sw.Start()
			c.advance(time.Second)
			sw.Stop()
		},
	}
	for name, setup := range cases {
		sw, clock := newFake()
		setup(sw, clock)
		sw.Reset()
		clock.advance(time.Second)
		if sw.Elapsed() != 0 || sw.Running() || sw.Started() {
			t.Fatalf("%s: expected idle after reset, got elapsed=%s running=%v", name, sw.Elapsed(), sw.Running())
		}
	}
}
