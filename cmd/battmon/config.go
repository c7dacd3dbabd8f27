package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand prints the profile the daemon is actually running
// with, defaults filled in. Reading the file on disk would miss them.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		GroupID: gAdvanced,
		Short:   "Show the daemon's effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := newAPIClient().GetConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			b, err := json.MarshalIndent(conf, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			cmd.Println(string(b))
			return nil
		},
	}
}
