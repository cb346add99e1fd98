// Package cli provides the command-line interface for parley.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mayeuticsapp/parley/internal/api"
	"github.com/mayeuticsapp/parley/internal/config"
	"github.com/mayeuticsapp/parley/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and API client
	cfg       config.Config
	apiClient *api.Client
	logger    *slog.Logger
	collector *metrics.Collector

	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Multi-AI conversation client",
	Long: `Parley is a terminal client for a multi-AI conversation backend.

Configure AI providers (OpenAI, Anthropic, Google), give them named
personalities, and let them talk to each other in moderated conversations:
send your own messages, request a reply from a specific participant, or run
several autonomous rounds in one go.

Run 'parley console' for the interactive UI, or use the subcommands for
scripting.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		apiClient = api.New(cfg.ServerURL)
		collector = metrics.NewCollector()
		apiClient.SetCollector(collector)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if collector != nil && logger != nil {
			snap := collector.Snapshot()
			for op, s := range snap.Ops {
				logger.Debug("session stats",
					"op", op,
					"requests", s.Count,
					"failures", s.Failures,
					"avg_ms", s.AvgTimeMs,
					"max_ms", s.MaxTimeMs,
				)
			}
		}
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "backend URL (default from config or PARLEY_SERVER_URL)")

	// Add subcommands
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(personalitiesCmd)
	rootCmd.AddCommand(conversationsCmd)
}
