// Package settings owns the process-wide tuning configuration the agent
// loops read and the adaptation engine rewrites.
//
// Settings are a logical singleton: mutation always replaces the whole
// object, never a single field in place. Every replacement is validated
// against the field bounds and cross-field consistency rules before it is
// allowed to persist.
package settings

import (
	"fmt"
	"time"
)

// Field bounds.
const (
	MinActiveTasks = 1
	MaxActiveTasks = 100

	MinEscalationThresholdHours = 1
	MaxEscalationThresholdHours = 168

	MinSnoozeDuration = time.Minute
	MaxSnoozeDuration = 30 * 24 * time.Hour

	MinRecommendationValidity = time.Minute
	MaxRecommendationValidity = 24 * time.Hour
)

// Settings is the agent's tunable configuration.
type Settings struct {
	MaxActiveTasks                 int           `json:"max_active_tasks" yaml:"max_active_tasks"`
	EscalationThresholdHours       int           `json:"escalation_threshold_hours" yaml:"escalation_threshold_hours"`
	MinimumConfidenceThreshold     float64       `json:"minimum_confidence_threshold" yaml:"minimum_confidence_threshold"`
	DefaultSnoozeDuration          time.Duration `json:"default_snooze_duration" yaml:"default_snooze_duration"`
	RecommendationValidityDuration time.Duration `json:"recommendation_validity_duration" yaml:"recommendation_validity_duration"`
	AutoApplyRecommendations       bool          `json:"auto_apply_recommendations" yaml:"auto_apply_recommendations"`
	AutoEscalateOverdueTasks       bool          `json:"auto_escalate_overdue_tasks" yaml:"auto_escalate_overdue_tasks"`
	AutoAwakenSnoozedTasks         bool          `json:"auto_awaken_snoozed_tasks" yaml:"auto_awaken_snoozed_tasks"`
	UpdatedAt                      time.Time     `json:"updated_at" yaml:"updated_at"`
}

// Default returns the settings used when none have been persisted yet.
func Default(now time.Time) Settings {
	return Settings{
		MaxActiveTasks:                 10,
		EscalationThresholdHours:       24,
		MinimumConfidenceThreshold:     0.70,
		DefaultSnoozeDuration:          24 * time.Hour,
		RecommendationValidityDuration: time.Hour,
		AutoApplyRecommendations:       true,
		AutoEscalateOverdueTasks:       true,
		AutoAwakenSnoozedTasks:         true,
		UpdatedAt:                      now,
	}
}

// Validate checks field bounds and the cross-field consistency rules.
// A returned error names the violated rule.
func (s Settings) Validate() error {
	if s.MaxActiveTasks < MinActiveTasks || s.MaxActiveTasks > MaxActiveTasks {
		return fmt.Errorf("max_active_tasks must be in [%d, %d], got %d",
			MinActiveTasks, MaxActiveTasks, s.MaxActiveTasks)
	}
	if s.EscalationThresholdHours < MinEscalationThresholdHours || s.EscalationThresholdHours > MaxEscalationThresholdHours {
		return fmt.Errorf("escalation_threshold_hours must be in [%d, %d], got %d",
			MinEscalationThresholdHours, MaxEscalationThresholdHours, s.EscalationThresholdHours)
	}
	if s.MinimumConfidenceThreshold < 0.0 || s.MinimumConfidenceThreshold > 1.0 {
		return fmt.Errorf("minimum_confidence_threshold must be in [0.0, 1.0], got %.2f",
			s.MinimumConfidenceThreshold)
	}
	if s.DefaultSnoozeDuration < MinSnoozeDuration || s.DefaultSnoozeDuration > MaxSnoozeDuration {
		return fmt.Errorf("default_snooze_duration must be in [%v, %v], got %v",
			MinSnoozeDuration, MaxSnoozeDuration, s.DefaultSnoozeDuration)
	}
	if s.RecommendationValidityDuration < MinRecommendationValidity || s.RecommendationValidityDuration > MaxRecommendationValidity {
		return fmt.Errorf("recommendation_validity_duration must be in [%v, %v], got %v",
			MinRecommendationValidity, MaxRecommendationValidity, s.RecommendationValidityDuration)
	}

	// Cross-field consistency
	if s.AutoApplyRecommendations && s.MinimumConfidenceThreshold < 0.5 {
		return fmt.Errorf("minimum_confidence_threshold must be >= 0.5 when auto_apply_recommendations is enabled, got %.2f",
			s.MinimumConfidenceThreshold)
	}
	if s.RecommendationValidityDuration > s.DefaultSnoozeDuration {
		return fmt.Errorf("recommendation_validity_duration (%v) must not exceed default_snooze_duration (%v)",
			s.RecommendationValidityDuration, s.DefaultSnoozeDuration)
	}

	return nil
}

// Clone returns a copy suitable for copy-on-write mutation.
func (s Settings) Clone() Settings {
	return s
}

// EscalationThreshold returns the escalation threshold as a duration.
func (s Settings) EscalationThreshold() time.Duration {
	return time.Duration(s.EscalationThresholdHours) * time.Hour
}
