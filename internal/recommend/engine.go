package recommend

import (
	"fmt"
	"time"

	"taskpilot/internal/logging"
	"taskpilot/internal/scoring"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// Rule thresholds. The rule chain is ordered; the first match wins.
const (
	activateUrgencyFloor = 0.70
	snoozeUrgencyCeiling = 0.30
	snoozeLoadFactor     = 0.80
	returnUrgencyCeiling = 0.40
)

// Engine turns scored tasks into recommendations.
type Engine struct{}

// NewEngine creates a recommendation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Recommend evaluates the single most urgent task against the rule chain.
// The scores slice must already be in descending urgency order (terminal
// tasks excluded), as produced by the scoring engine. Returns nil when no
// rule matches or there is nothing to score.
func (e *Engine) Recommend(scores []scoring.TaskScore, activeCount int, cfg settings.Settings, now time.Time) *Recommendation {
	if len(scores) == 0 {
		return nil
	}
	rec := e.evaluate(scores[0], activeCount, cfg, now)
	if rec != nil {
		logging.Recommend("Recommendation %s: %s task %s (confidence=%.2f)",
			rec.ID, rec.Action, rec.TaskID, rec.Confidence)
	}
	return rec
}

// RecommendBatch evaluates every scored task in urgency order and returns at
// most limit recommendations. A limit of zero or less means no cap.
func (e *Engine) RecommendBatch(scores []scoring.TaskScore, activeCount int, cfg settings.Settings, now time.Time, limit int) []*Recommendation {
	var recs []*Recommendation
	for _, score := range scores {
		if limit > 0 && len(recs) >= limit {
			break
		}
		if rec := e.evaluate(score, activeCount, cfg, now); rec != nil {
			recs = append(recs, rec)
		}
	}
	logging.RecommendDebug("Batch produced %d recommendations from %d scored tasks", len(recs), len(scores))
	return recs
}

// evaluate runs the ordered rule chain for one scored task.
func (e *Engine) evaluate(score scoring.TaskScore, activeCount int, cfg settings.Settings, now time.Time) *Recommendation {
	t := score.Task

	// Rule 1: overdue past the escalation threshold.
	if score.ShouldEscalate && t.Status != task.StatusEscalated {
		rec := newRecommendation(t.ID, ActionEscalate,
			fmt.Sprintf("overdue by %v, past the %dh escalation threshold",
				t.OverdueBy(now).Round(time.Minute), cfg.EscalationThresholdHours),
			0.95, cfg, now)
		critical := task.PriorityCritical
		rec.SuggestedPriority = &critical
		return rec
	}

	// Rule 2: snooze deadline has passed.
	if score.ShouldAwaken && cfg.AutoAwakenSnoozedTasks {
		return newRecommendation(t.ID, ActionAwaken,
			"snooze period has elapsed", 1.00, cfg, now)
	}

	// Rule 3: urgent pending work and capacity to take it on.
	if t.Status == task.StatusPending &&
		score.UrgencyScore >= activateUrgencyFloor &&
		activeCount < cfg.MaxActiveTasks {
		return newRecommendation(t.ID, ActionActivate,
			fmt.Sprintf("urgency %.2f with %d/%d active slots in use",
				score.UrgencyScore, activeCount, cfg.MaxActiveTasks),
			score.UrgencyScore, cfg, now)
	}

	// Rule 4: low-urgency work crowding a nearly-full active set.
	if (t.Status == task.StatusPending || t.Status == task.StatusActive) &&
		score.UrgencyScore < snoozeUrgencyCeiling &&
		!t.IsOverdue(now) &&
		float64(activeCount) >= snoozeLoadFactor*float64(cfg.MaxActiveTasks) {
		rec := newRecommendation(t.ID, ActionSnooze,
			fmt.Sprintf("urgency %.2f while active load is %d/%d",
				score.UrgencyScore, activeCount, cfg.MaxActiveTasks),
			0.70, cfg, now)
		snooze := cfg.DefaultSnoozeDuration
		rec.SuggestedSnooze = &snooze
		return rec
	}

	// Rule 5: active work that no longer warrants a slot.
	if t.Status == task.StatusActive && score.UrgencyScore < returnUrgencyCeiling {
		return newRecommendation(t.ID, ActionReturnToPending,
			fmt.Sprintf("urgency %.2f no longer justifies an active slot", score.UrgencyScore),
			0.65, cfg, now)
	}

	return nil
}
