package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/utils/ptr"
)

var defaultFileConfig = &RawFileConfig{
	PollIntervalSeconds:   ptr.To(3),
	FetchTimeoutSeconds:   ptr.To(10),
	SleepThresholdSeconds: ptr.To(300),
	Bands: &[]RawBand{
		{Level: 50, RepeatSeconds: 300},
		{Level: 40, RepeatSeconds: 180},
		{Level: 30, RepeatSeconds: 120},
	},
	Milestones:           &[]int{90, 80, 70, 60, 50, 40, 30, 20, 10},
	ChargingMilestones:   &[]int{25, 50, 75, 90, 100},
	NotificationsEnabled: ptr.To(true),
	PlaySound:            ptr.To(true),
	// Empty means "pick a platform default player at runtime".
	SoundCommand: ptr.To(""),
}

var _ Config = &File{}

// File is a JSON-file-backed Config.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// RawBand is the serialized form of one threshold band.
type RawBand struct {
	Level         int `json:"level"`
	RepeatSeconds int `json:"repeatSeconds"`
}

// RawFileConfig is the on-disk profile. Pointer fields distinguish
// "absent, use default" from explicit zero values.
type RawFileConfig struct {
	PollIntervalSeconds   *int       `json:"pollIntervalSeconds,omitempty"`
	FetchTimeoutSeconds   *int       `json:"fetchTimeoutSeconds,omitempty"`
	SleepThresholdSeconds *int       `json:"sleepThresholdSeconds,omitempty"`
	Bands                 *[]RawBand `json:"bands,omitempty"`
	Milestones            *[]int     `json:"milestones,omitempty"`
	ChargingMilestones    *[]int     `json:"chargingMilestones,omitempty"`
	NotificationsEnabled  *bool      `json:"notificationsEnabled,omitempty"`
	PlaySound             *bool      `json:"playSound,omitempty"`
	SoundCommand          *string    `json:"soundCommand,omitempty"`
}

// NewFile loads the profile at configPath and validates the thresholds.
// A malformed threshold table is fatal here: the engine refuses to start
// rather than run with undefined band matching.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	if err := f.Load(); err != nil {
		return nil, err
	}
	if err := f.AlertingOptions().Validate(); err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid thresholds in %s", configPath)
	}

	return f, nil
}

// NewFileFromConfig wraps an in-memory raw config, mainly for tests and
// the simulate command.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}
	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

func secondsOrDefault(v, def *int) time.Duration {
	if v != nil {
		return time.Duration(*v) * time.Second
	}
	return time.Duration(*def) * time.Second
}

func (f *File) PollInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return secondsOrDefault(f.c.PollIntervalSeconds, defaultFileConfig.PollIntervalSeconds)
}

func (f *File) FetchTimeout() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return secondsOrDefault(f.c.FetchTimeoutSeconds, defaultFileConfig.FetchTimeoutSeconds)
}

func (f *File) SleepThreshold() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return secondsOrDefault(f.c.SleepThresholdSeconds, defaultFileConfig.SleepThresholdSeconds)
}

func (f *File) Bands() alerting.Table {
	f.mu.RLock()
	defer f.mu.RUnlock()

	raw := f.c.Bands
	if raw == nil {
		raw = defaultFileConfig.Bands
	}

	table := make(alerting.Table, 0, len(*raw))
	for _, b := range *raw {
		table = append(table, alerting.Band{
			Ceiling:        b.Level,
			RepeatInterval: time.Duration(b.RepeatSeconds) * time.Second,
		})
	}
	return table
}

func (f *File) Milestones() []int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	raw := f.c.Milestones
	if raw == nil {
		raw = defaultFileConfig.Milestones
	}
	return append([]int(nil), *raw...)
}

func (f *File) ChargingMilestones() []int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	raw := f.c.ChargingMilestones
	if raw == nil {
		raw = defaultFileConfig.ChargingMilestones
	}
	return append([]int(nil), *raw...)
}

func (f *File) NotificationsEnabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.NotificationsEnabled != nil {
		return *f.c.NotificationsEnabled
	}
	return *defaultFileConfig.NotificationsEnabled
}

func (f *File) SoundEnabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.PlaySound != nil {
		return *f.c.PlaySound
	}
	return *defaultFileConfig.PlaySound
}

func (f *File) SoundCommand() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.SoundCommand != nil {
		return *f.c.SoundCommand
	}
	return *defaultFileConfig.SoundCommand
}

func (f *File) AlertingOptions() alerting.Options {
	return alerting.Options{
		Bands:              f.Bands(),
		Milestones:         f.Milestones(),
		ChargingMilestones: f.ChargingMilestones(),
	}
}

// Raw returns a fully-populated copy of the profile for the HTTP API.
func (f *File) Raw() *RawFileConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := &RawFileConfig{
		PollIntervalSeconds:   f.c.PollIntervalSeconds,
		FetchTimeoutSeconds:   f.c.FetchTimeoutSeconds,
		SleepThresholdSeconds: f.c.SleepThresholdSeconds,
		Bands:                 f.c.Bands,
		Milestones:            f.c.Milestones,
		ChargingMilestones:    f.c.ChargingMilestones,
		NotificationsEnabled:  f.c.NotificationsEnabled,
		PlaySound:             f.c.PlaySound,
		SoundCommand:          f.c.SoundCommand,
	}

	if out.PollIntervalSeconds == nil {
		out.PollIntervalSeconds = defaultFileConfig.PollIntervalSeconds
	}
	if out.FetchTimeoutSeconds == nil {
		out.FetchTimeoutSeconds = defaultFileConfig.FetchTimeoutSeconds
	}
	if out.SleepThresholdSeconds == nil {
		out.SleepThresholdSeconds = defaultFileConfig.SleepThresholdSeconds
	}
	if out.Bands == nil {
		out.Bands = defaultFileConfig.Bands
	}
	if out.Milestones == nil {
		out.Milestones = defaultFileConfig.Milestones
	}
	if out.ChargingMilestones == nil {
		out.ChargingMilestones = defaultFileConfig.ChargingMilestones
	}
	if out.NotificationsEnabled == nil {
		out.NotificationsEnabled = defaultFileConfig.NotificationsEnabled
	}
	if out.PlaySound == nil {
		out.PlaySound = defaultFileConfig.PlaySound
	}
	if out.SoundCommand == nil {
		out.SoundCommand = defaultFileConfig.SoundCommand
	}
	return out
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// No profile yet: run on defaults. Do not make f.c nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	c := &RawFileConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config %s", f.filepath)
	}
	f.c = c

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b, err := json.MarshalIndent(f.c, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal config")
	}

	if dir := filepath.Dir(f.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.Wrapf(err, "failed to create config dir %s", dir)
		}
	}

	if err := os.WriteFile(f.filepath, b, 0o644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write config %s", f.filepath)
	}
	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"pollInterval":       f.PollInterval(),
		"fetchTimeout":       f.FetchTimeout(),
		"sleepThreshold":     f.SleepThreshold(),
		"bands":              f.Bands(),
		"milestones":         f.Milestones(),
		"chargingMilestones": f.ChargingMilestones(),
		"notifications":      f.NotificationsEnabled(),
		"sound":              f.SoundEnabled(),
	}
}
