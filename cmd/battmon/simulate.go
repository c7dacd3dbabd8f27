package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/battery"
	"github.com/battmon/battmon/pkg/config"
)

// parseReadingSpec parses one simulated reading: a percentage with an
// optional trailing "c" marking it as charging, e.g. "45" or "45c".
func parseReadingSpec(spec string) (battery.Reading, error) {
	spec = strings.TrimSpace(spec)
	charging := false
	if strings.HasSuffix(spec, "c") {
		charging = true
		spec = strings.TrimSuffix(spec, "c")
	}

	pct, err := strconv.Atoi(spec)
	if err != nil {
		return battery.Reading{}, fmt.Errorf("invalid reading %q: %v", spec, err)
	}
	return battery.Reading{Percentage: pct, Charging: charging}, nil
}

func parseReadingSpecs(specs string) ([]battery.Reading, error) {
	parts := strings.Split(specs, ",")
	readings := make([]battery.Reading, 0, len(parts))
	for _, p := range parts {
		r, err := parseReadingSpec(p)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// NewSimulateCommand replays a scripted reading sequence through the
// real scheduler and prints the alerts it would produce. Useful for
// checking a threshold profile without draining a battery.
func NewSimulateCommand() *cobra.Command {
	var (
		readingsFlag string
		stepSeconds  int
	)

	cmd := &cobra.Command{
		Use:     "simulate",
		GroupID: gAdvanced,
		Short:   "Replay a scripted battery curve through the alert policy",
		Long: `Replay a scripted battery curve through the alert policy.

Readings are comma-separated percentages, each with an optional trailing
"c" to mark it as charging. Virtual time advances by --step seconds
between readings. Example:

  battmon simulate --readings "60,55,50,45c,80c,100c,99,50" --step 60`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readings, err := parseReadingSpecs(readingsFlag)
			if err != nil {
				return err
			}
			if stepSeconds <= 0 {
				return fmt.Errorf("--step must be positive")
			}

			conf := loadSimulateConfig()
			sched, err := alerting.New(conf.AlertingOptions())
			if err != nil {
				return fmt.Errorf("invalid thresholds: %w", err)
			}

			now := time.Now()
			step := time.Duration(stepSeconds) * time.Second
			for i, r := range readings {
				offset := time.Duration(i) * step
				r.CapturedAt = now.Add(offset)
				for _, ev := range sched.OnReading(r, r.CapturedAt) {
					cmd.Printf("t+%-8s %s %-20s %s\n",
						offset.Round(time.Second),
						chargeColor(ev.Percentage)(fmt.Sprintf("%3d%%", ev.Percentage)),
						"["+ev.Kind.String()+"]",
						ev.Message)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&readingsFlag, "readings", "", "comma-separated readings, e.g. \"60,55,50c,80c\"")
	f.IntVar(&stepSeconds, "step", 60, "virtual seconds between readings")
	_ = cmd.MarkFlagRequired("readings")

	return cmd
}

// loadSimulateConfig uses the profile when present, defaults otherwise.
func loadSimulateConfig() config.Config {
	if conf, err := config.NewFile(configPath); err == nil {
		return conf
	}
	return config.NewFileFromConfig(nil, "")
}
