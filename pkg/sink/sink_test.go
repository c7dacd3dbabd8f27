package sink

import (
	"testing"
	"time"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/events"
)

type recordingSink struct {
	delivered []alerting.Event
}

func (r *recordingSink) Deliver(ev alerting.Event) {
	r.delivered = append(r.delivered, ev)
}

func TestMultiFansOutInOrder(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := Multi{a, b}

	ev := alerting.Event{
		Kind:       alerting.Milestone,
		Percentage: 80,
		Level:      80,
		Message:    "Battery at 80%",
	}
	m.Deliver(ev)

	for i, s := range []*recordingSink{a, b} {
		if len(s.delivered) != 1 {
			t.Fatalf("sink %d received %d events, want 1", i, len(s.delivered))
		}
		if s.delivered[0].Level != 80 {
			t.Errorf("sink %d received level %d, want 80", i, s.delivered[0].Level)
		}
	}
}

func TestHubSinkPublishesAlertFired(t *testing.T) {
	hub := events.NewEventHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s := NewHubSink(hub)
	s.Deliver(alerting.Event{
		Kind:       alerting.RepeatingThreshold,
		Percentage: 28,
		Level:      30,
		Urgency:    alerting.UrgencyCritical,
		Message:    "Battery at 28%",
		At:         time.Unix(1700000000, 0),
	})

	select {
	case ev := <-ch:
		if ev.Name != events.AlertFired {
			t.Fatalf("event name = %q, want %q", ev.Name, events.AlertFired)
		}
		payload, err := events.DecodeAs[events.AlertFiredEvent](ev)
		if err != nil {
			t.Fatalf("DecodeAs: %v", err)
		}
		if payload.Kind != "repeating-threshold" {
			t.Errorf("kind = %q, want repeating-threshold", payload.Kind)
		}
		if payload.Level != 30 || payload.Percentage != 28 {
			t.Errorf("payload = %+v, want level 30 at 28%%", payload)
		}
		if payload.Urgency != "critical" {
			t.Errorf("urgency = %q, want critical", payload.Urgency)
		}
		if payload.Ts != 1700000000 {
			t.Errorf("ts = %d, want 1700000000", payload.Ts)
		}
	default:
		t.Fatal("no event published to hub")
	}
}
