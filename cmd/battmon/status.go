package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var bold = color.New(color.Bold).SprintFunc()

func chargeColor(pct int) func(a ...interface{}) string {
	switch {
	case pct <= 30:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case pct <= 50:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	}
}

func levelOrNone(level int) string {
	if level < 0 {
		return "none"
	}
	return fmt.Sprintf("%d%%", level)
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current battery and alert status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiClient := newAPIClient()

			status, err := apiClient.GetStatus()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			thresholds, err := apiClient.GetThresholds()
			if err != nil {
				return fmt.Errorf("failed to get thresholds: %w", err)
			}

			cmd.Println(bold("Battery:"))
			if status.Reading == nil {
				cmd.Println("  No reading yet.")
			} else {
				pct := status.Reading.Percentage
				state := "discharging"
				if status.Charging {
					state = "charging"
				}
				cmd.Printf("  Charge: %s (%s)\n", chargeColor(pct)(fmt.Sprintf("%d%%", pct)), state)
			}

			cmd.Println(bold("Alerts:"))
			switch {
			case status.Charging:
				cmd.Println("  Paused while charging.")
			case status.ActiveBandCeiling >= 0:
				cmd.Printf("  Active band: at or below %d%%\n", status.ActiveBandCeiling)
				if status.NextRepeatInSeconds >= 0 {
					due := time.Duration(status.NextRepeatInSeconds) * time.Second
					cmd.Printf("  Next repeat in: %s\n", due.Round(time.Second))
				}
			default:
				cmd.Println("  Charge is above every threshold.")
			}
			cmd.Printf("  Last band alerted: %s\n", levelOrNone(status.LastBandAlerted))
			cmd.Printf("  Last milestone: %s\n", levelOrNone(status.LastMilestoneFired))
			cmd.Printf("  Last charging milestone: %s\n", levelOrNone(status.LastChargingMilestoneFired))

			cmd.Println(bold("Thresholds:"))
			for _, b := range thresholds.Bands {
				cmd.Printf("  <= %d%%: repeat every %s\n", b.Ceiling, (time.Duration(b.RepeatSeconds) * time.Second).Round(time.Second))
			}
			cmd.Printf("  Milestones: %v\n", thresholds.Milestones)
			cmd.Printf("  Charging milestones: %v\n", thresholds.ChargingMilestones)

			return nil
		},
	}
}
