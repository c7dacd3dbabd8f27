package events

import (
	"testing"
)

func TestHubPublishReachesAllSubscribers(t *testing.T) {
	hub := NewEventHub()
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	if got := hub.SubscriberCount(); got != 2 {
		t.Fatalf("SubscriberCount() = %d, want 2", got)
	}

	hub.Publish(ReadingUpdated, ReadingUpdatedEvent{Percentage: 42, Charging: true, Ts: 1})

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Name != ReadingUpdated {
				t.Errorf("event name = %q, want %q", ev.Name, ReadingUpdated)
			}
			payload, err := DecodeAs[ReadingUpdatedEvent](ev)
			if err != nil {
				t.Fatalf("DecodeAs: %v", err)
			}
			if payload.Percentage != 42 || !payload.Charging {
				t.Errorf("payload = %+v, want 42%% charging", payload)
			}
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewEventHub()
	ch := hub.Subscribe()

	hub.Unsubscribe(ch)
	hub.Unsubscribe(ch) // second call must be a no-op

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}
	if got := hub.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}
}

func TestHubSlowSubscriberDropsEvents(t *testing.T) {
	hub := NewEventHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// Overflow the subscriber buffer without draining. Publish must not
	// block and excess events must be dropped.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(ReadingUpdated, ReadingUpdatedEvent{Percentage: i})
	}

	if got := len(ch); got != subscriberBuffer {
		t.Errorf("buffered events = %d, want %d", got, subscriberBuffer)
	}
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *EventHub
	hub.Publish(AlertFired, AlertFiredEvent{Message: "ignored"})
}
