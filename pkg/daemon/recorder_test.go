package daemon

import (
	"testing"
	"time"
)

func TestTickRecorderGaps(t *testing.T) {
	r := NewTickRecorder(10)

	base := time.Now()
	if gap := r.Record(base); gap != 0 {
		t.Errorf("first tick gap = %s, want 0", gap)
	}
	if gap := r.Record(base.Add(3 * time.Second)); gap != 3*time.Second {
		t.Errorf("gap = %s, want 3s", gap)
	}

	// A large gap, as after a system sleep.
	if gap := r.Record(base.Add(10 * time.Minute)); gap < 9*time.Minute {
		t.Errorf("gap = %s, want >9m", gap)
	}
}

func TestTickRecorderBounded(t *testing.T) {
	r := NewTickRecorder(3)

	base := time.Now()
	for i := 0; i < 10; i++ {
		r.Record(base.Add(time.Duration(i) * time.Second))
	}

	want := base.Add(9 * time.Second).Round(0)
	if got := r.Last(); !got.Equal(want) {
		t.Errorf("Last() = %v, want %v", got, want)
	}
}

func TestTickRecorderCountIn(t *testing.T) {
	r := NewTickRecorder(10)

	r.Record(time.Now().Add(-time.Minute))
	r.Record(time.Now().Add(-10 * time.Second))
	r.Record(time.Now().Add(-5 * time.Second))

	if got := r.CountIn(30 * time.Second); got != 2 {
		t.Errorf("CountIn(30s) = %d, want 2", got)
	}
	if got := r.CountIn(2 * time.Minute); got != 3 {
		t.Errorf("CountIn(2m) = %d, want 3", got)
	}
}

func TestTickRecorderEmpty(t *testing.T) {
	r := NewTickRecorder(5)
	if !r.Last().IsZero() {
		t.Errorf("Last() on empty recorder should be zero")
	}
	if got := r.CountIn(time.Minute); got != 0 {
		t.Errorf("CountIn on empty recorder = %d, want 0", got)
	}
}
