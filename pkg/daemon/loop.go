package daemon

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/battery"
	"github.com/battmon/battmon/pkg/events"
	"github.com/battmon/battmon/pkg/sink"
)

// PollLoop drives the alert scheduler on a fixed period. It owns the
// wall-clock timer; the scheduler itself is pure and single-threaded, so
// every reading is marshaled onto the loop goroutine before OnReading
// runs.
type PollLoop struct {
	source    battery.Source
	scheduler *alerting.Scheduler
	alertSink sink.Sink
	hub       *events.EventHub
	recorder  *TickRecorder

	interval       time.Duration
	fetchTimeout   time.Duration
	sleepThreshold time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	log *logrus.Entry
}

// PollLoopOptions wires a PollLoop.
type PollLoopOptions struct {
	Source    battery.Source
	Scheduler *alerting.Scheduler
	AlertSink sink.Sink
	Hub       *events.EventHub

	Interval       time.Duration
	FetchTimeout   time.Duration
	SleepThreshold time.Duration
}

func NewPollLoop(opts PollLoopOptions) *PollLoop {
	return &PollLoop{
		source:         opts.Source,
		scheduler:      opts.Scheduler,
		alertSink:      opts.AlertSink,
		hub:            opts.Hub,
		recorder:       NewTickRecorder(60),
		interval:       opts.Interval,
		fetchTimeout:   opts.FetchTimeout,
		sleepThreshold: opts.SleepThreshold,
		log:            logrus.WithField("component", "poll-loop"),
	}
}

// Start transitions Stopped -> Running. The first poll happens
// immediately so the first alert decision reflects the current state
// instead of waiting a full period.
func (l *PollLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	go l.run()
}

// Stop cancels the timer. The in-flight tick, if any, still completes;
// no further ticks are scheduled. Idempotent.
func (l *PollLoop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	stopCh := l.stopCh
	doneCh := l.doneCh
	l.mu.Unlock()

	select {
	case <-stopCh: // already closed
	default:
		close(stopCh)
	}
	<-doneCh
}

// Running reports whether the loop is between Start and Stop.
func (l *PollLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// LastTick returns the time of the most recent poll tick.
func (l *PollLoop) LastTick() time.Time {
	return l.recorder.Last()
}

func (l *PollLoop) run() {
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		close(l.doneCh)
		l.log.Debug("poll loop stopped")
	}()

	l.log.WithField("interval", l.interval).Debug("poll loop started")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.tick()
	for {
		select {
		case <-ticker.C:
			l.tick()
		case <-l.stopCh:
			return
		}
	}
}

func (l *PollLoop) tick() {
	now := time.Now()

	gap := l.recorder.Record(now)
	switch {
	case l.sleepThreshold > 0 && gap > l.sleepThreshold:
		l.log.WithField("gap", gap).Info("tick gap exceeds sleep threshold, system likely resumed from sleep")
		l.hub.Publish(events.MonitorResumed, events.MonitorResumedEvent{
			GapSeconds: int(gap.Seconds()),
			Ts:         now.Unix(),
		})
	case gap > 2*l.interval:
		l.log.WithFields(logrus.Fields{
			"gap":          gap,
			"ticksLastMin": l.recorder.CountIn(time.Minute),
		}).Debug("missed poll ticks")
	}

	reading, err := l.fetchReading()
	if err != nil {
		// No reading this tick. Not an error to propagate: state stays
		// untouched and the next good reading corrects everything.
		l.log.WithError(err).Debug("no battery reading this tick")
		return
	}

	l.hub.Publish(events.ReadingUpdated, events.ReadingUpdatedEvent{
		Percentage: reading.Percentage,
		Charging:   reading.Charging,
		Ts:         now.Unix(),
	})

	for _, ev := range l.scheduler.OnReading(*reading, now) {
		// Sinks are fire-and-forget; a slow sink may lag visually but
		// never stalls the decision cadence.
		l.alertSink.Deliver(ev)
	}
}

// fetchReading invokes the source off the loop goroutine, bounded by the
// fetch timeout, so a hung platform call cannot stall the cadence.
func (l *PollLoop) fetchReading() (*battery.Reading, error) {
	type result struct {
		reading *battery.Reading
		err     error
	}

	ch := make(chan result, 1)
	go func() {
		r, err := l.source.GetReading()
		ch <- result{r, err}
	}()

	timer := time.NewTimer(l.fetchTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.reading, res.err
	case <-timer.C:
		return nil, battery.ErrUnavailable
	}
}
