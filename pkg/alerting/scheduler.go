package alerting

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/battery"
)

// levelNone marks milestone/band bookkeeping as unset.
const levelNone = -1

// Options configures a Scheduler. At least one of Bands, Milestones or
// ChargingMilestones must be set.
type Options struct {
	// Bands is the repeating-alert threshold table, strictly descending.
	Bands Table
	// Milestones are one-shot discharge levels, strictly descending.
	Milestones []int
	// ChargingMilestones are one-shot charge levels, strictly ascending.
	ChargingMilestones []int
}

// Validate checks the table and milestone invariants.
func (o Options) Validate() error {
	if len(o.Bands) == 0 && len(o.Milestones) == 0 && len(o.ChargingMilestones) == 0 {
		return fmt.Errorf("no bands or milestones configured")
	}
	if err := o.Bands.Validate(); err != nil {
		return fmt.Errorf("invalid threshold table: %w", err)
	}
	if err := validateMilestones(o.Milestones, false); err != nil {
		return fmt.Errorf("invalid discharge milestones: %w", err)
	}
	if err := validateMilestones(o.ChargingMilestones, true); err != nil {
		return fmt.Errorf("invalid charging milestones: %w", err)
	}
	return nil
}

// State is the scheduler bookkeeping. It is owned exclusively by one
// Scheduler and mutated in place by every reading; there are no
// process-wide singletons.
type State struct {
	// LastReading is the most recent reading consumed.
	LastReading *battery.Reading
	// Charging is the cached charging flag, gating alert emission.
	Charging bool
	// NextDueAt is the monotonic due time of the next repeating alert.
	// Zero means no repeat is scheduled.
	NextDueAt time.Time
	// LastBandAlerted is the ceiling of the band that produced the last
	// band alert this discharge cycle, or levelNone.
	LastBandAlerted int
	// LastMilestoneFired is the lowest discharge milestone fired this
	// cycle, or levelNone.
	LastMilestoneFired int
	// LastChargingMilestoneFired is the highest charging milestone fired
	// this charge run, or levelNone.
	LastChargingMilestoneFired int
	// reachedFull records whether the current/last charge run reached
	// 100%, which decides whether unplugging starts a fresh cycle.
	reachedFull bool
}

// ReachedFull reports whether the current charge run has reached 100%.
func (s State) ReachedFull() bool { return s.reachedFull }

// Scheduler is the alert decision core. Given the previous state and a
// new reading it decides which events to emit. It does no I/O and owns
// no timers; the caller supplies "now" (monotonic).
type Scheduler struct {
	opts  Options
	state State
	log   *logrus.Entry
}

// New validates opts and returns a Scheduler with neutral state.
func New(opts Options) (*Scheduler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		opts: opts,
		state: State{
			LastBandAlerted:            levelNone,
			LastMilestoneFired:         levelNone,
			LastChargingMilestoneFired: levelNone,
		},
		log: logrus.WithField("component", "scheduler"),
	}, nil
}

// Snapshot returns a copy of the current state for status reporting.
func (s *Scheduler) Snapshot() State {
	st := s.state
	if st.LastReading != nil {
		r := *st.LastReading
		st.LastReading = &r
	}
	return st
}

// Options returns the configured thresholds.
func (s *Scheduler) Options() Options { return s.opts }

// OnReading consumes one reading and returns the alerts to deliver.
// Out-of-range readings are skipped entirely: a single bad sample must
// not fire or suppress anything, correction happens on the next good
// reading.
func (s *Scheduler) OnReading(r battery.Reading, now time.Time) []Event {
	if !r.Valid() {
		s.log.WithField("percentage", r.Percentage).Warn("out-of-range reading, skipping tick")
		return nil
	}

	s.handleChargeEdge(r)

	var events []Event
	if s.state.Charging {
		if r.Percentage >= 100 {
			s.state.reachedFull = true
		}
		if ev, ok := s.checkChargingMilestone(r, now); ok {
			events = append(events, ev)
		}
	} else {
		events = append(events, s.dischargeAlerts(r, now)...)
	}

	rd := r
	s.state.LastReading = &rd
	return events
}

// handleChargeEdge updates the cached charging flag and performs the
// transition bookkeeping: plugging in cancels the repeat schedule but
// keeps milestone bookkeeping; unplugging resets the cycle only if the
// charge run reached 100%.
func (s *Scheduler) handleChargeEdge(r battery.Reading) {
	if r.Charging == s.state.Charging {
		return
	}

	if r.Charging {
		// Pause repeats while charging. Milestone bookkeeping stays: it
		// is still relevant if unplugged again before reaching full.
		s.state.NextDueAt = time.Time{}
		s.log.WithField("percentage", r.Percentage).Debug("charger connected, repeating alerts paused")
	} else {
		if s.state.reachedFull || r.Percentage >= 100 {
			// A full recharge ends the logical discharge cycle; every
			// band and milestone may fire again from the top.
			s.state.LastBandAlerted = levelNone
			s.state.LastMilestoneFired = levelNone
			s.state.LastChargingMilestoneFired = levelNone
			s.log.Debug("unplugged after full charge, milestone bookkeeping reset")
		} else {
			// Mid-charge unplug: same cycle continues. Levels already
			// alerted stay silenced; stricter ones may still fire.
			s.log.WithFields(logrus.Fields{
				"percentage":      r.Percentage,
				"lastBandAlerted": s.state.LastBandAlerted,
			}).Debug("unplugged mid-charge, keeping cycle bookkeeping")
		}
		s.state.reachedFull = false
	}
	s.state.Charging = r.Charging
}

// checkChargingMilestone fires at most one charging milestone per tick.
// When one tick jumps past several milestones, only the highest crossed
// one is reported and the bookkeeping fast-forwards to it.
func (s *Scheduler) checkChargingMilestone(r battery.Reading, now time.Time) (Event, bool) {
	crossed := levelNone
	for _, m := range s.opts.ChargingMilestones {
		if m > r.Percentage {
			break
		}
		if s.state.LastChargingMilestoneFired == levelNone || m > s.state.LastChargingMilestoneFired {
			crossed = m
		}
	}
	if crossed == levelNone {
		return Event{}, false
	}

	s.state.LastChargingMilestoneFired = crossed
	s.log.WithFields(logrus.Fields{
		"percentage": r.Percentage,
		"milestone":  crossed,
	}).Info("charging milestone reached")
	return Event{
		Kind:       ChargingMilestone,
		Percentage: r.Percentage,
		Level:      crossed,
		Urgency:    UrgencyLow,
		Message:    fmt.Sprintf("Battery charged to %d%%", r.Percentage),
		At:         now,
	}, true
}

// dischargeAlerts runs the band and milestone channels for a discharging
// reading. Both channels may fire on the same tick; they are independent
// and collapsing them would lose information for the sinks.
func (s *Scheduler) dischargeAlerts(r battery.Reading, now time.Time) []Event {
	var events []Event

	band, inBand := s.opts.Bands.BandFor(r.Percentage)
	if !inBand {
		// Above every ceiling: no band logic this tick.
		s.state.NextDueAt = time.Time{}
	} else {
		stricter := s.state.LastBandAlerted == levelNone || band.Ceiling < s.state.LastBandAlerted
		switch {
		case stricter:
			// Entering a band stricter than anything alerted this cycle
			// (or the very first band entry): alert immediately instead
			// of waiting out an interval set for a laxer band.
			events = append(events, s.bandEvent(band, r, now))
			s.state.LastBandAlerted = band.Ceiling
			s.state.NextDueAt = now.Add(band.RepeatInterval)
		case !s.state.NextDueAt.IsZero() && !now.Before(s.state.NextDueAt):
			events = append(events, s.bandEvent(band, r, now))
			s.state.NextDueAt = now.Add(band.RepeatInterval)
		case s.state.NextDueAt.IsZero():
			// Back in an already-alerted band after a charge interlude:
			// resume the cadence without an immediate duplicate.
			s.state.NextDueAt = now.Add(band.RepeatInterval)
		}
	}

	if ev, ok := s.checkDischargeMilestone(r, now); ok {
		events = append(events, ev)
	}
	return events
}

func (s *Scheduler) bandEvent(band Band, r battery.Reading, now time.Time) Event {
	s.log.WithFields(logrus.Fields{
		"percentage": r.Percentage,
		"ceiling":    band.Ceiling,
		"interval":   band.RepeatInterval,
	}).Info("battery below threshold")
	return Event{
		Kind:       RepeatingThreshold,
		Percentage: r.Percentage,
		Level:      band.Ceiling,
		Urgency:    urgencyForLevel(band.Ceiling),
		Message:    fmt.Sprintf("Battery at %d%%, below %d%% threshold. Connect charger.", r.Percentage, band.Ceiling),
		At:         now,
	}
}

// checkDischargeMilestone fires at most one discharge milestone per
// tick, collapsing multi-crossings to the lowest (most urgent) one.
func (s *Scheduler) checkDischargeMilestone(r battery.Reading, now time.Time) (Event, bool) {
	crossed := levelNone
	for _, m := range s.opts.Milestones {
		if m < r.Percentage {
			break
		}
		if s.state.LastMilestoneFired == levelNone || m < s.state.LastMilestoneFired {
			crossed = m
		}
	}
	if crossed == levelNone {
		return Event{}, false
	}

	s.state.LastMilestoneFired = crossed
	s.log.WithFields(logrus.Fields{
		"percentage": r.Percentage,
		"milestone":  crossed,
	}).Info("discharge milestone crossed")
	return Event{
		Kind:       Milestone,
		Percentage: r.Percentage,
		Level:      crossed,
		Urgency:    urgencyForLevel(crossed),
		Message:    fmt.Sprintf("Battery dropped to %d%%", r.Percentage),
		At:         now,
	}, true
}
