package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskpilot/internal/logging"
	"taskpilot/internal/store"
)

var (
	// Global flags
	verbose   bool
	workspace string
	ephemeral bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "taskpilot",
	Short: "taskpilot - autonomous task tracking agent",
	Long: `taskpilot tracks tasks and runs an autonomous agent over them.

A fast scoring loop observes the task landscape every few seconds, scores
urgency, and generates recommendations (escalate, awaken, activate, snooze,
return to pending). A slow adaptation loop analyzes the recent experience
window and tunes the agent's own settings within fixed bounds.

Run 'taskpilot run' to start the agent, or manage tasks directly with the
task subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// openStore opens the configured store: SQLite under the workspace, or the
// in-memory store when --ephemeral is set.
func openStore() (store.Store, error) {
	if ephemeral {
		return store.NewMemoryStore(), nil
	}
	cfg, err := loadHostConfig()
	if err != nil {
		return nil, err
	}
	return store.NewLocalStore(cfg.DatabasePath(workspace))
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: cwd)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "run with an in-memory store; nothing is persisted")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(recommendationsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
