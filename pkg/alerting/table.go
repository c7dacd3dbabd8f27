package alerting

import (
	"fmt"
	"time"
)

// Band is a percentage range with a repeat-alert cadence. A reading is in
// the band whose ceiling is the tightest match (lowest ceiling >= pct).
type Band struct {
	// Ceiling is the percentage at or below which this band applies.
	Ceiling int `json:"ceiling"`
	// RepeatInterval is the cadence of repeated alerts while the charge
	// stays inside this band.
	RepeatInterval time.Duration `json:"repeatInterval"`
}

// Table is an ordered list of bands, strictly descending by ceiling.
// Lower ceilings mean more urgency and shorter intervals.
type Table []Band

// Validate checks the ordering invariants. An invalid table is a
// construction-time error; the engine refuses to start with one.
func (t Table) Validate() error {
	for i, b := range t {
		if b.Ceiling <= 0 || b.Ceiling > 100 {
			return fmt.Errorf("band %d: ceiling %d out of range (0, 100]", i, b.Ceiling)
		}
		if b.RepeatInterval <= 0 {
			return fmt.Errorf("band %d: repeat interval must be positive, got %s", i, b.RepeatInterval)
		}
		if i > 0 && b.Ceiling >= t[i-1].Ceiling {
			return fmt.Errorf("band %d: ceilings must be strictly descending, got %d after %d", i, b.Ceiling, t[i-1].Ceiling)
		}
	}
	return nil
}

// BandFor returns the tightest band containing pct: the band with the
// lowest ceiling that is still >= pct. A percentage exactly equal to a
// ceiling counts as being in that band. The second return is false when
// pct is above every ceiling.
func (t Table) BandFor(pct int) (Band, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Ceiling >= pct {
			return t[i], true
		}
	}
	return Band{}, false
}

// validateMilestones checks a one-shot milestone list. Discharge
// milestones must be strictly descending, charging milestones strictly
// ascending.
func validateMilestones(ms []int, ascending bool) error {
	for i, m := range ms {
		if m <= 0 || m > 100 {
			return fmt.Errorf("milestone %d: level %d out of range (0, 100]", i, m)
		}
		if i == 0 {
			continue
		}
		if ascending && m <= ms[i-1] {
			return fmt.Errorf("milestone %d: levels must be strictly ascending, got %d after %d", i, m, ms[i-1])
		}
		if !ascending && m >= ms[i-1] {
			return fmt.Errorf("milestone %d: levels must be strictly descending, got %d after %d", i, m, ms[i-1])
		}
	}
	return nil
}
