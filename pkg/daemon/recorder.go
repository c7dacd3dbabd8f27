package daemon

import (
	"sync"
	"time"
)

// TickRecorder keeps the last N poll tick times. The poll loop uses it to
// spot large gaps between ticks, which on a laptop almost always mean the
// system was asleep.
type TickRecorder struct {
	maxRecordCount int
	ticks          []time.Time
	mu             sync.Mutex
}

// NewTickRecorder returns a recorder keeping at most maxRecordCount ticks.
func NewTickRecorder(maxRecordCount int) *TickRecorder {
	return &TickRecorder{
		maxRecordCount: maxRecordCount,
		ticks:          make([]time.Time, 0, maxRecordCount),
	}
}

// Record stores t and returns the gap to the previous tick. The first
// tick reports a zero gap.
func (r *TickRecorder) Record(t time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Round strips the monotonic clock reading, so gaps spanning a system
	// sleep are measured in wall time.
	t = t.Round(0)

	var gap time.Duration
	if len(r.ticks) > 0 {
		gap = t.Sub(r.ticks[len(r.ticks)-1])
	}

	if len(r.ticks) >= r.maxRecordCount {
		r.ticks = r.ticks[1:]
	}
	r.ticks = append(r.ticks, t)
	return gap
}

// Last returns the most recent tick time, or the zero time.
func (r *TickRecorder) Last() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.ticks) == 0 {
		return time.Time{}
	}
	return r.ticks[len(r.ticks)-1]
}

// CountIn returns the number of ticks recorded within the last window.
func (r *TickRecorder) CountIn(window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i := len(r.ticks) - 1; i >= 0; i-- {
		if time.Since(r.ticks[i]) > window {
			break
		}
		count++
	}
	return count
}
