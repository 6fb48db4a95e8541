package adapt

import (
	"fmt"
	"math"
	"time"

	"taskpilot/internal/logging"
	"taskpilot/internal/settings"
)

// minExperiences is the smallest window the analyzer will work with. Below
// this the adaptation loop has no perception and the tick is a no-op.
const minExperiences = 5

// trendWindow is how many recent experiences form the "current" side of the
// trend comparison.
const trendWindow = 3

// trendEpsilon is the dead band below which urgency drift counts as stable.
const trendEpsilon = 0.05

// Trend describes where system health is heading. Rising urgency means the
// backlog is getting hotter, which reads as degrading.
type Trend string

const (
	TrendStable    Trend = "stable"
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
)

// Analysis is the aggregate view of the experience window plus the live
// state the decision rules need.
type Analysis struct {
	ExperienceCount int
	AverageUrgency  float64
	MaxUrgency      float64
	SuccessRate     float64
	AverageTaskLoad float64
	ActionRate      float64
	Trend           Trend
	ActiveCount     int
	OverdueCount    int
	Settings        settings.Settings
	AnalyzedAt      time.Time
}

// Type names the single-field settings change an adaptation performs.
type Type string

const (
	TypeIncreaseCapacity            Type = "increase_capacity"
	TypeDecreaseCapacity            Type = "decrease_capacity"
	TypeReduceEscalationThreshold   Type = "reduce_escalation_threshold"
	TypeIncreaseConfidenceThreshold Type = "increase_confidence_threshold"
)

// Adaptation is one decided settings change, not yet applied.
type Adaptation struct {
	Type       Type
	Confidence float64
	Reasoning  string
}

// Applied reports a completed adaptation with before/after settings.
type Applied struct {
	Adaptation Adaptation
	Previous   settings.Settings
	Updated    settings.Settings
}

// Engine analyzes experience history and adapts settings.
type Engine struct {
	history *History
}

// NewEngine creates an adaptation engine owning the given history.
func NewEngine(history *History) *Engine {
	return &Engine{history: history}
}

// History returns the engine's experience window.
func (e *Engine) History() *History {
	return e.history
}

// Analyze aggregates the experience window. Returns nil when fewer than
// five experiences are stored - the loop's no-work signal.
func (e *Engine) Analyze(cfg settings.Settings, activeCount, overdueCount int, now time.Time) *Analysis {
	window := e.history.Snapshot()
	if len(window) < minExperiences {
		logging.AdaptDebug("Analysis skipped: %d/%d experiences", len(window), minExperiences)
		return nil
	}

	analysis := &Analysis{
		ExperienceCount: len(window),
		Trend:           computeTrend(window),
		ActiveCount:     activeCount,
		OverdueCount:    overdueCount,
		Settings:        cfg,
		AnalyzedAt:      now,
	}

	var urgencySum, loadSum float64
	executed, succeeded := 0, 0
	for _, exp := range window {
		urgencySum += exp.AverageUrgency
		loadSum += float64(exp.TaskCount)
		analysis.MaxUrgency = math.Max(analysis.MaxUrgency, exp.MaxUrgency)
		if exp.ActionExecuted {
			executed++
			if exp.ActionSucceeded {
				succeeded++
			}
		}
	}

	n := float64(len(window))
	analysis.AverageUrgency = urgencySum / n
	analysis.AverageTaskLoad = loadSum / n
	analysis.ActionRate = float64(executed) / n
	if executed > 0 {
		analysis.SuccessRate = float64(succeeded) / float64(executed)
	} else {
		// No actions executed reads as nothing went wrong.
		analysis.SuccessRate = 1.0
	}

	logging.Adapt("Analysis: n=%d avgUrgency=%.2f trend=%s successRate=%.2f actionRate=%.2f",
		analysis.ExperienceCount, analysis.AverageUrgency, analysis.Trend,
		analysis.SuccessRate, analysis.ActionRate)
	return analysis
}

// computeTrend compares mean urgency of the last three experiences against
// everything earlier.
func computeTrend(window []Experience) Trend {
	if len(window) <= trendWindow {
		return TrendStable
	}

	split := len(window) - trendWindow
	var earlierSum, recentSum float64
	for i, exp := range window {
		if i < split {
			earlierSum += exp.AverageUrgency
		} else {
			recentSum += exp.AverageUrgency
		}
	}
	earlier := earlierSum / float64(split)
	recent := recentSum / float64(trendWindow)

	diff := recent - earlier
	switch {
	case math.Abs(diff) < trendEpsilon:
		return TrendStable
	case diff > 0:
		return TrendDegrading
	default:
		return TrendImproving
	}
}

// Decide evaluates the ordered adaptation rules against an analysis. The
// first matching rule wins; nil means no adaptation this cycle.
func (e *Engine) Decide(a *Analysis) *Adaptation {
	if a == nil {
		return nil
	}
	maxActive := float64(a.Settings.MaxActiveTasks)

	if a.AverageUrgency > 0.70 && float64(a.ActiveCount) >= 0.90*maxActive {
		return &Adaptation{
			Type:       TypeIncreaseCapacity,
			Confidence: 0.80,
			Reasoning: fmt.Sprintf("average urgency %.2f with %d/%d active slots saturated",
				a.AverageUrgency, a.ActiveCount, a.Settings.MaxActiveTasks),
		}
	}

	if a.AverageUrgency < 0.30 && float64(a.ActiveCount) < 0.50*maxActive {
		return &Adaptation{
			Type:       TypeDecreaseCapacity,
			Confidence: 0.70,
			Reasoning: fmt.Sprintf("average urgency %.2f with only %d/%d active slots in use",
				a.AverageUrgency, a.ActiveCount, a.Settings.MaxActiveTasks),
		}
	}

	if float64(a.OverdueCount) > 0.50*maxActive {
		return &Adaptation{
			Type:       TypeReduceEscalationThreshold,
			Confidence: 0.85,
			Reasoning: fmt.Sprintf("%d overdue tasks against capacity %d",
				a.OverdueCount, a.Settings.MaxActiveTasks),
		}
	}

	if a.ActionRate < 0.20 {
		return &Adaptation{
			Type:       TypeIncreaseConfidenceThreshold,
			Confidence: 0.75,
			Reasoning:  fmt.Sprintf("action rate %.2f suggests recommendations are too timid to matter", a.ActionRate),
		}
	}

	return nil
}

// Apply clones the current settings, applies the adaptation's single field
// change, and re-validates. A consistency violation aborts the apply and
// leaves the input untouched.
func (e *Engine) Apply(current settings.Settings, ad Adaptation, now time.Time) (Applied, error) {
	updated := current.Clone()

	switch ad.Type {
	case TypeIncreaseCapacity:
		updated.MaxActiveTasks = min(updated.MaxActiveTasks+5, settings.MaxActiveTasks)
	case TypeDecreaseCapacity:
		updated.MaxActiveTasks = max(updated.MaxActiveTasks-3, settings.MinActiveTasks)
	case TypeReduceEscalationThreshold:
		updated.EscalationThresholdHours = max(updated.EscalationThresholdHours-6, settings.MinEscalationThresholdHours)
	case TypeIncreaseConfidenceThreshold:
		updated.MinimumConfidenceThreshold = math.Min(updated.MinimumConfidenceThreshold+0.05, 1.0)
	default:
		return Applied{}, fmt.Errorf("unknown adaptation type %q", ad.Type)
	}

	updated.UpdatedAt = now
	if err := updated.Validate(); err != nil {
		return Applied{}, fmt.Errorf("adaptation %s produced inconsistent settings: %w", ad.Type, err)
	}

	logging.Adapt("Applied %s: %s", ad.Type, ad.Reasoning)
	return Applied{Adaptation: ad, Previous: current, Updated: updated}, nil
}
