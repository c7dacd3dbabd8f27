package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
)

// Config is the monitor profile. Thresholds are read once at daemon
// startup; changing them requires a restart.
type Config interface {
	PollInterval() time.Duration
	FetchTimeout() time.Duration
	SleepThreshold() time.Duration
	Bands() alerting.Table
	Milestones() []int
	ChargingMilestones() []int
	NotificationsEnabled() bool
	SoundEnabled() bool
	SoundCommand() string

	// AlertingOptions bundles the threshold configuration for the
	// scheduler.
	AlertingOptions() alerting.Options

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	LogrusFields() logrus.Fields
}
