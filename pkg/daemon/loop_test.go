package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/battery"
	"github.com/battmon/battmon/pkg/events"
)

type fakeSource struct {
	mu      sync.Mutex
	reading battery.Reading
	err     error
	delay   time.Duration
	calls   int
}

func (f *fakeSource) GetReading() (*battery.Reading, error) {
	f.mu.Lock()
	reading := f.reading
	err := f.err
	delay := f.delay
	f.calls++
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	r := reading
	r.CapturedAt = time.Now()
	return &r, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type captureSink struct {
	mu     sync.Mutex
	events []alerting.Event
}

func (c *captureSink) Deliver(ev alerting.Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newTestLoop(t *testing.T, source battery.Source, capture *captureSink) *PollLoop {
	t.Helper()

	sched, err := alerting.New(alerting.Options{
		Bands: alerting.Table{
			{Ceiling: 50, RepeatInterval: 5 * time.Minute},
		},
	})
	if err != nil {
		t.Fatalf("alerting.New: %v", err)
	}

	return NewPollLoop(PollLoopOptions{
		Source:       source,
		Scheduler:    sched,
		AlertSink:    capture,
		Hub:          events.NewEventHub(),
		Interval:     time.Hour, // only the immediate first poll matters
		FetchTimeout: time.Second,
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestPollLoopImmediateFirstPoll(t *testing.T) {
	source := &fakeSource{reading: battery.Reading{Percentage: 45}}
	capture := &captureSink{}

	loop := newTestLoop(t, source, capture)
	loop.Start()
	defer loop.Stop()

	// A 45% discharging reading enters the 50 band: one alert, without
	// waiting out the poll period.
	waitFor(t, 2*time.Second, func() bool { return capture.count() == 1 })
	if source.callCount() != 1 {
		t.Errorf("expected exactly one fetch, got %d", source.callCount())
	}
}

func TestPollLoopSkipsUnavailableReading(t *testing.T) {
	source := &fakeSource{err: battery.ErrUnavailable}
	capture := &captureSink{}

	loop := newTestLoop(t, source, capture)
	loop.Start()
	defer loop.Stop()

	waitFor(t, 2*time.Second, func() bool { return source.callCount() >= 1 })
	if capture.count() != 0 {
		t.Errorf("unavailable reading produced %d alerts", capture.count())
	}
	if !loop.Running() {
		t.Errorf("loop stopped after a skipped tick")
	}
}

func TestPollLoopFetchTimeout(t *testing.T) {
	source := &fakeSource{
		reading: battery.Reading{Percentage: 45},
		delay:   200 * time.Millisecond,
	}
	capture := &captureSink{}

	loop := newTestLoop(t, source, capture)
	loop.fetchTimeout = 50 * time.Millisecond
	loop.Start()
	defer loop.Stop()

	// The hung fetch is abandoned; the tick is skipped, not an alert
	// fired on stale data.
	waitFor(t, 2*time.Second, func() bool { return source.callCount() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if capture.count() != 0 {
		t.Errorf("timed-out fetch still produced %d alerts", capture.count())
	}
}

func TestPollLoopStopIsIdempotent(t *testing.T) {
	source := &fakeSource{reading: battery.Reading{Percentage: 80}}
	loop := newTestLoop(t, source, &captureSink{})

	loop.Start()
	waitFor(t, 2*time.Second, func() bool { return source.callCount() >= 1 })

	loop.Stop()
	loop.Stop() // second stop must not panic or block

	if loop.Running() {
		t.Errorf("loop still running after Stop")
	}
}

func TestPollLoopRestart(t *testing.T) {
	source := &fakeSource{reading: battery.Reading{Percentage: 80}}
	loop := newTestLoop(t, source, &captureSink{})

	loop.Start()
	waitFor(t, 2*time.Second, func() bool { return source.callCount() >= 1 })
	loop.Stop()

	loop.Start()
	waitFor(t, 2*time.Second, func() bool { return source.callCount() >= 2 })
	loop.Stop()
}
