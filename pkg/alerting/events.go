package alerting

import (
	"time"
)

// Kind discriminates the alert channels. Repeating-band warnings and
// one-shot milestones are independent channels; a sink may render them
// differently (persistent notification vs. toast).
type Kind int

const (
	// RepeatingThreshold is a cadence warning tied to the active band.
	RepeatingThreshold Kind = iota
	// Milestone is a one-shot discharge milestone crossing.
	Milestone
	// ChargingMilestone is a one-shot charge milestone crossing.
	ChargingMilestone
)

func (k Kind) String() string {
	switch k {
	case RepeatingThreshold:
		return "repeating-threshold"
	case Milestone:
		return "milestone"
	case ChargingMilestone:
		return "charging-milestone"
	}
	return "unknown"
}

// Urgency is a severity tag for sinks. Sinks decide how to realize it
// (notification urgency hint, sound, color); the scheduler only tags.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyHigh
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyHigh:
		return "high"
	case UrgencyCritical:
		return "critical"
	}
	return "unknown"
}

// urgencyForLevel maps a discharge percentage to a severity tier. The
// tiers follow the default band layout (50/40/30).
func urgencyForLevel(pct int) Urgency {
	switch {
	case pct <= 30:
		return UrgencyCritical
	case pct <= 40:
		return UrgencyHigh
	default:
		return UrgencyNormal
	}
}

// Event is one alert decision. Events are produced by the Scheduler,
// handed to sinks and discarded; they carry no rendering detail.
type Event struct {
	Kind       Kind      `json:"kind"`
	Percentage int       `json:"percentage"`
	Level      int       `json:"level"` // band ceiling or milestone that triggered
	Urgency    Urgency   `json:"urgency"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}
