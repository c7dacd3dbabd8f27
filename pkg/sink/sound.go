package sink

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
)

const soundTimeout = 5 * time.Second

// SoundSink plays a short audible alert by shelling out to an external
// player. Charging milestones stay silent; only discharge alerts beep.
type SoundSink struct {
	// Command overrides the platform default player invocation. It is
	// run through "sh -c".
	Command string

	log *logrus.Entry
}

func NewSoundSink(command string) *SoundSink {
	return &SoundSink{
		Command: command,
		log:     logrus.WithField("sink", "sound"),
	}
}

func (s *SoundSink) Deliver(ev alerting.Event) {
	if ev.Kind == alerting.ChargingMilestone {
		return
	}
	go s.play()
}

func (s *SoundSink) play() {
	ctx, cancel := context.WithTimeout(context.Background(), soundTimeout)
	defer cancel()

	command := s.Command
	if command == "" {
		command = defaultPlayCommand()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if err := cmd.Run(); err != nil {
		// A missing player is not an error worth surfacing; the
		// notification channel still works.
		s.log.Debugf("play command failed: %v", err)
	}
}

func defaultPlayCommand() string {
	if runtime.GOOS == "darwin" {
		return "afplay /System/Library/Sounds/Ping.aiff"
	}
	// sox; falls through to a silent no-op if not installed.
	return "play -nq synth 0.2 sine 1000"
}
