package events

import "encoding/json"

// Event name constants
const (
	AlertFired     = "alert.fired"
	ReadingUpdated = "reading.updated"
	MonitorResumed = "monitor.resumed"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// AlertFiredEvent is the typed payload for alert.fired.
type AlertFiredEvent struct {
	Kind       string `json:"kind"`
	Percentage int    `json:"percentage"`
	Level      int    `json:"level"`
	Urgency    string `json:"urgency"`
	Message    string `json:"message"`
	Ts         int64  `json:"ts"`
}

// ReadingUpdatedEvent is the typed payload for reading.updated.
type ReadingUpdatedEvent struct {
	Percentage int   `json:"percentage"`
	Charging   bool  `json:"charging"`
	Ts         int64 `json:"ts"`
}

// MonitorResumedEvent is the typed payload for monitor.resumed, published
// when the poll loop detects a tick gap large enough to indicate a system
// sleep.
type MonitorResumedEvent struct {
	GapSeconds int   `json:"gapSeconds"`
	Ts         int64 `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic
// type T. It ignores the event name and simply unmarshals Data into T.
// If Data is empty, it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
