package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/battmon/battmon/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = defaultSocketPath()
	configPath     = defaultConfigPath()
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "battmon.sock")
	}
	return "/tmp/battmon.sock"
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "battmon.json"
	}
	return filepath.Join(dir, "battmon", "profile.json")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: battmon daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'battmon daemon'")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "Check the permissions on", unixSocketPath)
	}
}

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "battmon",
		Short:        "battmon watches the battery and alerts you before it runs out",
		Long:         `battmon polls the battery state and raises threshold-based alerts: repeating warnings that get more frequent as the charge drops, one-shot milestones on the way down, and progress notifications while charging.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battmon daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewStatusCommand(),
		NewConfigCommand(),
		NewEventsCommand(),
		NewTestAlertCommand(),
		NewSimulateCommand(),
		NewTrayCommand(),
		NewVersionCommand(),
	)

	return cmd
}
