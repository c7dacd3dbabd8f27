// Package sink delivers alert events to the user. Sinks are
// fire-and-forget from the scheduler's perspective: delivery must never
// block the poll loop, and delivery failures stay inside the sink.
package sink

import (
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
)

// Sink realizes one alert event as sound, notification, log line, etc.
type Sink interface {
	Deliver(ev alerting.Event)
}

// Multi fans one event out to several sinks.
type Multi []Sink

func (m Multi) Deliver(ev alerting.Event) {
	for _, s := range m {
		s.Deliver(ev)
	}
}

// LogSink writes a structured record per event. It is always part of the
// fan-out so alert decisions remain observable even with notifications
// disabled.
type LogSink struct{}

func (LogSink) Deliver(ev alerting.Event) {
	logrus.WithFields(logrus.Fields{
		"kind":       ev.Kind.String(),
		"percentage": ev.Percentage,
		"level":      ev.Level,
		"urgency":    ev.Urgency.String(),
	}).Info(ev.Message)
}
