package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/battmon/battmon/pkg/utils/ptr"
)

func TestDefaults(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{}, "")

	if got := f.PollInterval(); got != 3*time.Second {
		t.Errorf("PollInterval() = %s, want 3s", got)
	}
	if got := f.SleepThreshold(); got != 5*time.Minute {
		t.Errorf("SleepThreshold() = %s, want 5m", got)
	}

	table := f.Bands()
	if len(table) != 3 {
		t.Fatalf("expected 3 default bands, got %d", len(table))
	}
	if table[0].Ceiling != 50 || table[0].RepeatInterval != 5*time.Minute {
		t.Errorf("first default band = %+v, want 50%%/5m", table[0])
	}
	if len(f.Milestones()) != 9 {
		t.Errorf("expected 9 default discharge milestones, got %d", len(f.Milestones()))
	}
	if got := f.ChargingMilestones(); len(got) != 5 || got[0] != 25 {
		t.Errorf("unexpected default charging milestones: %v", got)
	}
	if !f.NotificationsEnabled() || !f.SoundEnabled() {
		t.Errorf("notifications and sound should default to enabled")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("NewFile on missing file: %v", err)
	}
	if got := f.PollInterval(); got != 3*time.Second {
		t.Errorf("PollInterval() = %s, want default 3s", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	f := NewFileFromConfig(&RawFileConfig{
		PollIntervalSeconds: ptr.To(5),
		Bands: &[]RawBand{
			{Level: 60, RepeatSeconds: 600},
			{Level: 20, RepeatSeconds: 60},
		},
		PlaySound: ptr.To(false),
	}, path)
	if err := f.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if got := g.PollInterval(); got != 5*time.Second {
		t.Errorf("PollInterval() = %s, want 5s", got)
	}
	table := g.Bands()
	if len(table) != 2 || table[1].Ceiling != 20 || table[1].RepeatInterval != time.Minute {
		t.Errorf("bands did not round-trip: %+v", table)
	}
	if g.SoundEnabled() {
		t.Errorf("playSound=false did not round-trip")
	}
}

func TestNewFileRejectsInvalidTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	bad := `{"bands": [{"level": 30, "repeatSeconds": 60}, {"level": 50, "repeatSeconds": 60}]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFile(path); err == nil {
		t.Fatalf("NewFile accepted an unsorted threshold table")
	}
}

func TestNewFileRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFile(path); err == nil {
		t.Fatalf("NewFile accepted malformed JSON")
	}
}
