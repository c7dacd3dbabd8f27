// Package monitor holds the wire types shared between the daemon and its
// clients.
package monitor

import "github.com/battmon/battmon/pkg/battery"

// Status is the daemon state snapshot served at GET /status.
// Level fields use -1 for "none".
type Status struct {
	Reading                    *battery.Reading `json:"reading,omitempty"`
	Charging                   bool             `json:"charging"`
	ActiveBandCeiling          int              `json:"activeBandCeiling"`
	NextRepeatInSeconds        int              `json:"nextRepeatInSeconds"`
	LastBandAlerted            int              `json:"lastBandAlerted"`
	LastMilestoneFired         int              `json:"lastMilestoneFired"`
	LastChargingMilestoneFired int              `json:"lastChargingMilestoneFired"`
	ReachedFull                bool             `json:"reachedFull"`
	Version                    string           `json:"version"`
}

// Thresholds is the threshold configuration served at GET /thresholds.
type Thresholds struct {
	Bands []ThresholdBand `json:"bands"`

	Milestones         []int `json:"milestones"`
	ChargingMilestones []int `json:"chargingMilestones"`
}

// ThresholdBand is one repeating band in wire form.
type ThresholdBand struct {
	Ceiling       int `json:"ceiling"`
	RepeatSeconds int `json:"repeatSeconds"`
}
