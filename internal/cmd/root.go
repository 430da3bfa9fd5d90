package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rask/internal/log"
	"github.com/felixgeelhaar/rask/internal/version"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "rask",
	Short: "A monorepo task orchestrator",
	Long: `rask discovers every rask.yaml linked from an entry configuration,
reconstructs the directory hierarchy they declare, and runs a named task
across all of them in dependency order - deepest configurations first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDefaultLogger(log.New(log.Config{
			Level:  log.ParseLevel(logLevel),
			Format: log.ParseFormat(logFormat),
			Output: log.OutputStderr(),
		}))
	},
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Version = version.GetInfo().String()
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}
