package sink

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyAppName   = "battmon"
	notifyTimeoutMs = int32(5000)
)

// DBusSink posts desktop notifications over the session bus. Repeating
// alerts replace their previous notification instead of stacking; a
// critical alert is persistent (no expiry) so it survives until
// dismissed.
type DBusSink struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
	log    *logrus.Entry
}

func NewDBusSink() *DBusSink {
	return &DBusSink{log: logrus.WithField("sink", "dbus")}
}

func (d *DBusSink) Deliver(ev alerting.Event) {
	// Notification delivery may block on the bus; never on the caller.
	go d.notify(ev)
}

func (d *DBusSink) notify(ev alerting.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			d.log.Debugf("session bus unavailable: %v", err)
			return
		}
		d.conn = conn
	}

	// freedesktop urgency hint: 0 low, 1 normal, 2 critical.
	urgency := byte(1)
	switch ev.Urgency {
	case alerting.UrgencyLow:
		urgency = 0
	case alerting.UrgencyCritical:
		urgency = 2
	}

	timeout := notifyTimeoutMs
	if ev.Urgency == alerting.UrgencyCritical {
		timeout = 0 // persistent
	}

	// Only repeating alerts replace the previous notification; milestones
	// are discrete and may stack.
	replaces := uint32(0)
	if ev.Kind == alerting.RepeatingThreshold {
		replaces = d.lastID
	}

	obj := d.conn.Object(notifyDest, dbus.ObjectPath(notifyPath))
	call := obj.Call(notifyMethod, 0,
		notifyAppName,
		replaces,
		"battery-caution",
		summaryFor(ev),
		ev.Message,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		timeout,
	)
	if call.Err != nil {
		d.log.Debugf("notify failed: %v", call.Err)
		return
	}

	var id uint32
	if err := call.Store(&id); err == nil && ev.Kind == alerting.RepeatingThreshold {
		d.lastID = id
	}
}

func summaryFor(ev alerting.Event) string {
	switch ev.Kind {
	case alerting.ChargingMilestone:
		return "Battery charging"
	case alerting.Milestone:
		return "Battery level"
	default:
		return "Battery low"
	}
}
