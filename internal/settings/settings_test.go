package settings

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default(testNow)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.MaxActiveTasks)
	assert.Equal(t, 24, cfg.EscalationThresholdHours)
	assert.Equal(t, 0.70, cfg.MinimumConfidenceThreshold)
	assert.Equal(t, 24*time.Hour, cfg.DefaultSnoozeDuration)
	assert.Equal(t, time.Hour, cfg.RecommendationValidityDuration)
	assert.True(t, cfg.AutoApplyRecommendations)
	assert.True(t, cfg.AutoEscalateOverdueTasks)
	assert.True(t, cfg.AutoAwakenSnoozedTasks)
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"max active below floor", func(s *Settings) { s.MaxActiveTasks = 0 }},
		{"max active above cap", func(s *Settings) { s.MaxActiveTasks = 101 }},
		{"escalation hours below floor", func(s *Settings) { s.EscalationThresholdHours = 0 }},
		{"escalation hours above cap", func(s *Settings) { s.EscalationThresholdHours = 169 }},
		{"confidence below zero", func(s *Settings) { s.MinimumConfidenceThreshold = -0.01 }},
		{"confidence above one", func(s *Settings) { s.MinimumConfidenceThreshold = 1.01 }},
		{"snooze below one minute", func(s *Settings) { s.DefaultSnoozeDuration = 30 * time.Second }},
		{"snooze above thirty days", func(s *Settings) { s.DefaultSnoozeDuration = 31 * 24 * time.Hour }},
		{"validity below one minute", func(s *Settings) { s.RecommendationValidityDuration = time.Second }},
		{"validity above one day", func(s *Settings) { s.RecommendationValidityDuration = 25 * time.Hour }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(testNow)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateCrossField(t *testing.T) {
	cfg := Default(testNow)
	cfg.AutoApplyRecommendations = true
	cfg.MinimumConfidenceThreshold = 0.4
	assert.Error(t, cfg.Validate(), "auto-apply demands confidence >= 0.5")

	cfg.AutoApplyRecommendations = false
	assert.NoError(t, cfg.Validate(), "low confidence is fine without auto-apply")

	cfg = Default(testNow)
	cfg.DefaultSnoozeDuration = time.Hour
	cfg.RecommendationValidityDuration = 2 * time.Hour
	assert.Error(t, cfg.Validate(), "validity must not exceed snooze duration")
}

func TestBoundaryValuesAreAccepted(t *testing.T) {
	cfg := Default(testNow)
	cfg.MaxActiveTasks = MinActiveTasks
	cfg.EscalationThresholdHours = MaxEscalationThresholdHours
	assert.NoError(t, cfg.Validate())

	cfg.MaxActiveTasks = MaxActiveTasks
	cfg.EscalationThresholdHours = MinEscalationThresholdHours
	assert.NoError(t, cfg.Validate())
}

func TestClone(t *testing.T) {
	cfg := Default(testNow)
	clone := cfg.Clone()
	clone.MaxActiveTasks = 42
	clone.AutoApplyRecommendations = false

	assert.Equal(t, 10, cfg.MaxActiveTasks)
	if diff := cmp.Diff(Default(testNow), cfg); diff != "" {
		t.Errorf("original settings changed (-want +got):\n%s", diff)
	}
}

func TestEscalationThreshold(t *testing.T) {
	cfg := Default(testNow)
	cfg.EscalationThresholdHours = 6
	assert.Equal(t, 6*time.Hour, cfg.EscalationThreshold())
}
