package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// subscriber channels are buffered; a subscriber that falls this far
// behind starts losing events rather than stalling the daemon.
const subscriberBuffer = 16

// EventHub fans daemon events out to SSE subscribers. Publishing never
// blocks: slow subscribers drop events.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The caller must Unsubscribe when
// done or the channel leaks.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel. Safe to
// call with an already-removed channel.
func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of live subscribers.
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish marshals payload and delivers it to every subscriber. A nil
// hub is a no-op, so callers need no guards in wiring code.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Warn("dropping unmarshalable event payload")
		return
	}

	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default: // subscriber too slow, drop
		}
	}
}
