package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battmon/battmon/pkg/daemon"
	"github.com/battmon/battmon/pkg/tray"
	"github.com/battmon/battmon/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Short:   "Run the battmon daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battmon daemon starting")
			return daemon.Run(configPath, unixSocketPath)
		},
	}
}

// NewTrayCommand .
func NewTrayCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "tray",
		Short:   "Run the system tray app",
		GroupID: gBasic,
		Run: func(_ *cobra.Command, _ []string) {
			tray.Run(unixSocketPath)
		},
	}
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}
