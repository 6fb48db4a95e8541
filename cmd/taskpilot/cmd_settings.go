package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"taskpilot/internal/clock"
	"taskpilot/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change agent settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [field] [value]",
	Short: "Change one settings field",
	Long: `Changes one settings field and re-validates the whole record.

Fields:
  max-active        maximum concurrently active tasks (1-100)
  escalation-hours  overdue hours before escalation (1-168)
  min-confidence    auto-apply confidence threshold (0.0-1.0)
  snooze            default snooze duration, e.g. 24h (1m-720h)
  validity          recommendation validity, e.g. 1h (1m-24h)
  auto-apply        true/false
  auto-escalate     true/false
  auto-awaken       true/false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := st.EnsureSettings(cmd.Context(), clock.System().Now())
	if err != nil {
		return err
	}

	fmt.Printf("max-active:        %d\n", cfg.MaxActiveTasks)
	fmt.Printf("escalation-hours:  %d\n", cfg.EscalationThresholdHours)
	fmt.Printf("min-confidence:    %.2f\n", cfg.MinimumConfidenceThreshold)
	fmt.Printf("snooze:            %v\n", cfg.DefaultSnoozeDuration)
	fmt.Printf("validity:          %v\n", cfg.RecommendationValidityDuration)
	fmt.Printf("auto-apply:        %t\n", cfg.AutoApplyRecommendations)
	fmt.Printf("auto-escalate:     %t\n", cfg.AutoEscalateOverdueTasks)
	fmt.Printf("auto-awaken:       %t\n", cfg.AutoAwakenSnoozedTasks)
	fmt.Printf("updated:           %s\n", cfg.UpdatedAt.Format(time.RFC3339))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	now := clock.System().Now()
	cfg, err := st.EnsureSettings(cmd.Context(), now)
	if err != nil {
		return err
	}

	if err := applySetting(&cfg, args[0], args[1]); err != nil {
		return err
	}
	cfg.UpdatedAt = now

	if err := st.SaveSettings(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func applySetting(cfg *settings.Settings, field, value string) error {
	switch field {
	case "max-active":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max-active needs an integer: %w", err)
		}
		cfg.MaxActiveTasks = n
	case "escalation-hours":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("escalation-hours needs an integer: %w", err)
		}
		cfg.EscalationThresholdHours = n
	case "min-confidence":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("min-confidence needs a number: %w", err)
		}
		cfg.MinimumConfidenceThreshold = f
	case "snooze":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("snooze needs a duration: %w", err)
		}
		cfg.DefaultSnoozeDuration = d
	case "validity":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("validity needs a duration: %w", err)
		}
		cfg.RecommendationValidityDuration = d
	case "auto-apply", "auto-escalate", "auto-awaken":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s needs true or false: %w", field, err)
		}
		switch field {
		case "auto-apply":
			cfg.AutoApplyRecommendations = b
		case "auto-escalate":
			cfg.AutoEscalateOverdueTasks = b
		case "auto-awaken":
			cfg.AutoAwakenSnoozedTasks = b
		}
	default:
		return fmt.Errorf("unknown settings field %q", field)
	}
	return nil
}
