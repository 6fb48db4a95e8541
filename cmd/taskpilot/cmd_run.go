package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskpilot/internal/adapt"
	"taskpilot/internal/agent"
	"taskpilot/internal/clock"
	"taskpilot/internal/config"
)

// loadHostConfig loads .taskpilot/config.yaml for the active workspace.
func loadHostConfig() (*config.Config, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// runCmd starts the autonomous agent.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the autonomous agent loops",
	Long: `Starts the scoring and adaptation loops and blocks until interrupted.

The scoring loop ticks every few seconds: it scores every live task, writes
recommendations, and executes the first one that clears the confidence
threshold (when auto-apply is on). The adaptation loop waits out a startup
delay, then periodically analyzes the experience window and tunes one
settings field at a time.`,
	RunE: runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hostCfg, err := loadHostConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	clk := clock.System()
	if _, err := st.EnsureSettings(ctx, clk.Now()); err != nil {
		return fmt.Errorf("failed to ensure settings: %w", err)
	}

	// The experience window is shared: the scoring loop writes it, the
	// adaptation loop reads it.
	history := adapt.NewHistory()
	scoringLoop := agent.NewScoringLoop(st, clk, history, hostCfg.Agent.RecommendationLimit)
	adaptLoop := agent.NewAdaptLoop(st, clk, adapt.NewEngine(history))

	runner := agent.NewRunner()
	runner.Add(agent.LoopConfig{
		Name:     "scoring",
		Interval: hostCfg.Agent.ScoringIntervalDuration(),
		Backoff:  hostCfg.Agent.ScoringBackoffDuration(),
	}, scoringLoop.Step)
	runner.Add(agent.LoopConfig{
		Name:         "adaptation",
		Interval:     hostCfg.Agent.AdaptationIntervalDuration(),
		Backoff:      hostCfg.Agent.AdaptationIntervalDuration(),
		StartupDelay: hostCfg.Agent.AdaptationDelayDuration(),
	}, adaptLoop.Step)

	// Hot-reload logging config on config.yaml changes.
	watcher, err := config.NewWatcher(workspace)
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watcher failed to start", zap.Error(err))
		}
		defer watcher.Stop()
	}

	logger.Info("agent started",
		zap.String("workspace", workspace),
		zap.Bool("ephemeral", ephemeral),
		zap.Duration("scoring_interval", hostCfg.Agent.ScoringIntervalDuration()),
		zap.Duration("adaptation_interval", hostCfg.Agent.AdaptationIntervalDuration()))

	err = runner.Run(ctx)
	logger.Info("agent stopped")
	return err
}
