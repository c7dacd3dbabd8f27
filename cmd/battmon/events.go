package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewEventsCommand tails the daemon SSE stream, one line per event.
func NewEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "events",
		GroupID: gAdvanced,
		Short:   "Tail live daemon events (readings, alerts, resume)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			ch, err := newAPIClient().Events(ctx)
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}

			for ev := range ch {
				cmd.Printf("%s %s\n", ev.Name, string(ev.Data))
			}
			return nil
		},
	}
}

// NewTestAlertCommand asks the daemon to route a synthetic alert through
// its sinks, to verify notification and sound delivery.
func NewTestAlertCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "test-alert",
		GroupID: gBasic,
		Short:   "Send a test alert through the notification sinks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ret, err := newAPIClient().TestAlert()
			if err != nil {
				return fmt.Errorf("failed to send test alert: %w", err)
			}
			if ret != "" {
				cmd.Println(ret)
			}
			return nil
		},
	}
}
