package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aboutorca/WeatherNavApp/internal/pkg/logging"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Plan driving trips with weather along the route",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// stdout carries command output; logs go to stderr
			slog.SetDefault(logging.New(os.Stderr, logLevel, "text"))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newPlanCmd(), newClassifyCmd())
	return root
}
