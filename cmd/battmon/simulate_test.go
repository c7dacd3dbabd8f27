package main

import (
	"testing"
)

func TestParseReadingSpecs(t *testing.T) {
	readings, err := parseReadingSpecs("60, 55,50c,100c")
	if err != nil {
		t.Fatalf("parseReadingSpecs: %v", err)
	}

	if len(readings) != 4 {
		t.Fatalf("expected 4 readings, got %d", len(readings))
	}
	if readings[0].Percentage != 60 || readings[0].Charging {
		t.Errorf("readings[0] = %+v, want 60%% discharging", readings[0])
	}
	if readings[2].Percentage != 50 || !readings[2].Charging {
		t.Errorf("readings[2] = %+v, want 50%% charging", readings[2])
	}
	if readings[3].Percentage != 100 || !readings[3].Charging {
		t.Errorf("readings[3] = %+v, want 100%% charging", readings[3])
	}
}

func TestParseReadingSpecInvalid(t *testing.T) {
	for _, spec := range []string{"", "abc", "45x"} {
		if _, err := parseReadingSpec(spec); err == nil {
			t.Errorf("parseReadingSpec(%q) accepted invalid input", spec)
		}
	}
}
