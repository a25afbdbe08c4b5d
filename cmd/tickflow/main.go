package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/tickflow/internal/logging"
)

var (
	logger    zerolog.Logger
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tickflow",
	Short: "tickflow - cue scheduling against a logical clock",
	Long: "tickflow plays YAML cue scores against an offline, realtime or Redis-relayed clock,\n" +
		"with time scaling, cancellation and Prometheus metrics.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.SetupWithWriter(logLevel, logFormat, cmd.ErrOrStderr())
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
