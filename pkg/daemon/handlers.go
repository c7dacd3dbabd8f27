package daemon

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/monitor"
	"github.com/battmon/battmon/pkg/version"
)

const levelNone = -1

func buildStatus() monitor.Status {
	st := sched.Snapshot()

	status := monitor.Status{
		Reading:                    st.LastReading,
		Charging:                   st.Charging,
		ActiveBandCeiling:          levelNone,
		NextRepeatInSeconds:        levelNone,
		LastBandAlerted:            st.LastBandAlerted,
		LastMilestoneFired:         st.LastMilestoneFired,
		LastChargingMilestoneFired: st.LastChargingMilestoneFired,
		ReachedFull:                st.ReachedFull(),
		Version:                    version.Version,
	}

	if st.LastReading != nil && !st.Charging {
		if band, ok := sched.Options().Bands.BandFor(st.LastReading.Percentage); ok {
			status.ActiveBandCeiling = band.Ceiling
		}
	}
	if !st.NextDueAt.IsZero() {
		remaining := int(time.Until(st.NextDueAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		status.NextRepeatInSeconds = remaining
	}
	return status
}

func getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, buildStatus())
}

func getCurrentCharge(c *gin.Context) {
	st := sched.Snapshot()
	if st.LastReading == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, "no battery reading yet")
		return
	}
	c.IndentedJSON(http.StatusOK, st.LastReading.Percentage)
}

func getCharging(c *gin.Context) {
	st := sched.Snapshot()
	if st.LastReading == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, "no battery reading yet")
		return
	}
	c.IndentedJSON(http.StatusOK, st.Charging)
}

func getConfig(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, conf.Raw())
}

func getThresholds(c *gin.Context) {
	opts := sched.Options()

	t := monitor.Thresholds{
		Bands:              make([]monitor.ThresholdBand, 0, len(opts.Bands)),
		Milestones:         opts.Milestones,
		ChargingMilestones: opts.ChargingMilestones,
	}
	for _, b := range opts.Bands {
		t.Bands = append(t.Bands, monitor.ThresholdBand{
			Ceiling:       b.Ceiling,
			RepeatSeconds: int(b.RepeatInterval.Seconds()),
		})
	}
	c.IndentedJSON(http.StatusOK, t)
}

// getEvents streams hub events as SSE until the client disconnects.
func getEvents(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// postTestAlert routes a synthetic alert through the sinks, so users can
// verify notification and sound delivery without draining the battery.
func postTestAlert(c *gin.Context) {
	st := sched.Snapshot()
	pct := 42
	if st.LastReading != nil {
		pct = st.LastReading.Percentage
	}

	ev := alerting.Event{
		Kind:       alerting.RepeatingThreshold,
		Percentage: pct,
		Level:      pct,
		Urgency:    alerting.UrgencyNormal,
		Message:    "Test alert from battmon",
		At:         time.Now(),
	}
	alertSink.Deliver(ev)

	c.IndentedJSON(http.StatusOK, "test alert delivered")
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
