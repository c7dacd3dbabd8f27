package battery

import (
	"fmt"
	"time"
)

// Reading is an immutable snapshot of the battery at one point in time.
// A new Reading supersedes the previous one; readings are never merged.
type Reading struct {
	// Percentage is the state of charge, 0-100.
	Percentage int `json:"percentage"`
	// Charging is true while the battery is charging or full on AC.
	Charging bool `json:"charging"`
	// CapturedAt carries a monotonic clock reading. It is only used for
	// scheduling math, never for wall-clock display.
	CapturedAt time.Time `json:"capturedAt"`
}

// Valid reports whether the percentage is inside [0, 100]. Platform
// sources occasionally report garbage (phantom 0% spikes, >100% during
// calibration); invalid readings are skipped, not clamped.
func (r Reading) Valid() bool {
	return r.Percentage >= 0 && r.Percentage <= 100
}

func (r Reading) String() string {
	state := "discharging"
	if r.Charging {
		state = "charging"
	}
	return fmt.Sprintf("%d%% (%s)", r.Percentage, state)
}
