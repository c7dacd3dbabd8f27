// Package tray is the desktop incarnation of the monitor: a system tray
// item showing the current charge, refreshed from the daemon.
package tray

import (
	"context"
	"fmt"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/client"
	"github.com/battmon/battmon/pkg/events"
	"github.com/battmon/battmon/pkg/monitor"
)

const refreshInterval = 5 * time.Second

type trayApp struct {
	client *client.Client

	status    *systray.MenuItem
	band      *systray.MenuItem
	testAlert *systray.MenuItem
	quit      *systray.MenuItem
}

// Run blocks until the tray app quits.
func Run(socketPath string) {
	app := &trayApp{client: client.NewClient(socketPath)}
	systray.Run(app.onReady, func() {})
}

func (a *trayApp) onReady() {
	systray.SetTitle("🔋 …")
	systray.SetTooltip("battmon - Battery Monitor")

	a.status = systray.AddMenuItem("Status: Connecting...", "Current battery status")
	a.status.Disable()
	a.band = systray.AddMenuItem("Alerts: -", "Active alert band")
	a.band.Disable()

	systray.AddSeparator()
	a.testAlert = systray.AddMenuItem("Send Test Alert", "Route a test alert through the notification sinks")
	systray.AddSeparator()
	a.quit = systray.AddMenuItem("Quit", "Quit battmon tray")

	ctx, cancel := context.WithCancel(context.Background())

	go a.refreshLoop(ctx)
	go a.eventLoop(ctx)

	go func() {
		for {
			select {
			case <-a.testAlert.ClickedCh:
				if _, err := a.client.TestAlert(); err != nil {
					logrus.Errorf("test alert failed: %v", err)
				}
			case <-a.quit.ClickedCh:
				cancel()
				systray.Quit()
				return
			}
		}
	}()
}

func (a *trayApp) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	a.refresh()
	for {
		select {
		case <-ticker.C:
			a.refresh()
		case <-ctx.Done():
			return
		}
	}
}

// eventLoop refreshes immediately on daemon events instead of waiting
// out the poll period. The stream drops while the daemon restarts; keep
// retrying.
func (a *trayApp) eventLoop(ctx context.Context) {
	for {
		ch, err := a.client.Events(ctx)
		if err != nil {
			select {
			case <-time.After(refreshInterval):
				continue
			case <-ctx.Done():
				return
			}
		}

		for ev := range ch {
			if ev.Name == events.AlertFired || ev.Name == events.ReadingUpdated {
				a.refresh()
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (a *trayApp) refresh() {
	status, err := a.client.GetStatus()
	if err != nil {
		systray.SetTitle("🔋 ?")
		a.status.SetTitle("Status: daemon not reachable")
		return
	}
	a.render(status)
}

func (a *trayApp) render(status *monitor.Status) {
	if status.Reading == nil {
		systray.SetTitle("🔋 ?")
		a.status.SetTitle("Status: no battery reading yet")
		return
	}

	glyph := "🔋"
	state := "Discharging"
	if status.Charging {
		glyph = "⚡️"
		state = "Charging"
	}
	systray.SetTitle(fmt.Sprintf("%s %d%%", glyph, status.Reading.Percentage))
	a.status.SetTitle(fmt.Sprintf("Status: %d%% (%s)", status.Reading.Percentage, state))

	switch {
	case status.Charging:
		a.band.SetTitle("Alerts: paused while charging")
	case status.ActiveBandCeiling >= 0 && status.NextRepeatInSeconds >= 0:
		a.band.SetTitle(fmt.Sprintf("Alerts: below %d%%, next in %s",
			status.ActiveBandCeiling, (time.Duration(status.NextRepeatInSeconds) * time.Second).Round(time.Second)))
	case status.ActiveBandCeiling >= 0:
		a.band.SetTitle(fmt.Sprintf("Alerts: below %d%%", status.ActiveBandCeiling))
	default:
		a.band.SetTitle("Alerts: none due")
	}
}
