package sink

import (
	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/events"
)

// HubSink publishes alerts to the SSE event hub so CLI and tray clients
// see them live.
type HubSink struct {
	Hub *events.EventHub
}

func NewHubSink(hub *events.EventHub) *HubSink {
	return &HubSink{Hub: hub}
}

func (h *HubSink) Deliver(ev alerting.Event) {
	h.Hub.Publish(events.AlertFired, events.AlertFiredEvent{
		Kind:       ev.Kind.String(),
		Percentage: ev.Percentage,
		Level:      ev.Level,
		Urgency:    ev.Urgency.String(),
		Message:    ev.Message,
		Ts:         ev.At.Unix(),
	})
}
