// Package recommend maps scored tasks to proposed actions. A recommendation
// is a time-bounded, confidence-scored suggestion; whether it is executed
// immediately or left for the user depends on the auto-apply settings.
package recommend

import (
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// Action is the vocabulary of operations the engine can propose.
type Action string

const (
	ActionEscalate        Action = "escalate"
	ActionAwaken          Action = "awaken"
	ActionActivate        Action = "activate"
	ActionSnooze          Action = "snooze"
	ActionReturnToPending Action = "return_to_pending"
)

// IsValid returns true if the action is part of the engine's vocabulary.
func (a Action) IsValid() bool {
	switch a {
	case ActionEscalate, ActionAwaken, ActionActivate, ActionSnooze, ActionReturnToPending:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// Recommendation is one proposed action on one task.
type Recommendation struct {
	ID                string         `json:"id"`
	TaskID            string         `json:"task_id"`
	Action            Action         `json:"action"`
	Reasoning         string         `json:"reasoning"`
	Confidence        float64        `json:"confidence"`
	SuggestedPriority *task.Priority `json:"suggested_priority,omitempty"`
	SuggestedSnooze   *time.Duration `json:"suggested_snooze,omitempty"`
	GeneratedAt       time.Time      `json:"generated_at"`
	ExpiresAt         time.Time      `json:"expires_at"`
	IsApplied         bool           `json:"is_applied"`
	AppliedAt         *time.Time     `json:"applied_at,omitempty"`
}

// newRecommendation stamps identity and expiry on a freshly decided action.
func newRecommendation(taskID string, action Action, reasoning string, confidence float64, cfg settings.Settings, now time.Time) *Recommendation {
	return &Recommendation{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		Action:      action,
		Reasoning:   reasoning,
		Confidence:  confidence,
		GeneratedAt: now,
		ExpiresAt:   now.Add(cfg.RecommendationValidityDuration),
	}
}

// IsValid reports whether the recommendation is still actionable: not yet
// applied and not expired.
func (r *Recommendation) IsValid(now time.Time) bool {
	return !r.IsApplied && now.Before(r.ExpiresAt)
}

// ShouldAutoApply reports whether the agent may execute this recommendation
// without user confirmation.
func (r *Recommendation) ShouldAutoApply(cfg settings.Settings, now time.Time) bool {
	return cfg.AutoApplyRecommendations &&
		r.IsValid(now) &&
		r.Confidence >= cfg.MinimumConfidenceThreshold
}

// MarkApplied records execution. Idempotent on the applied flag.
func (r *Recommendation) MarkApplied(now time.Time) {
	if r.IsApplied {
		return
	}
	r.IsApplied = true
	applied := now
	r.AppliedAt = &applied
}
