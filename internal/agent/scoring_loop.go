package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskpilot/internal/adapt"
	"taskpilot/internal/clock"
	"taskpilot/internal/logging"
	"taskpilot/internal/recommend"
	"taskpilot/internal/scoring"
	"taskpilot/internal/settings"
	"taskpilot/internal/store"
	"taskpilot/internal/task"
)

// ScoringPercept is a point-in-time snapshot of the task landscape. Scores
// are computed once here and reused by every later phase of the tick, so a
// single cycle never sees two different urgency values for the same task.
type ScoringPercept struct {
	Tasks        []task.Task
	Scores       []scoring.TaskScore
	Settings     settings.Settings
	ActiveCount  int
	OverdueCount int
	ObservedAt   time.Time
}

// ScoringAction is a recommendation cleared for automatic execution.
type ScoringAction struct {
	Recommendation *recommend.Recommendation
	Settings       settings.Settings
}

// ScoringResult reports what the actuator did with an action.
type ScoringResult struct {
	TaskID   string
	Action   recommend.Action
	Executed bool
	Success  bool
	Err      error
}

// scoringSensor snapshots tasks and settings and scores everything once.
type scoringSensor struct {
	store  store.Store
	scorer *scoring.Engine
	clock  clock.Clock
}

func (s *scoringSensor) Sense(ctx context.Context) (*ScoringPercept, error) {
	now := s.clock.Now()

	// Expired recommendations are pruned here, not in the actuator, so the
	// table stays bounded even on ticks where nothing is auto-applied.
	if n, err := s.store.PruneExpiredRecommendations(ctx, now); err != nil {
		logging.LoopWarn("Failed to prune expired recommendations: %v", err)
	} else if n > 0 {
		logging.LoopDebug("Pruned %d expired recommendations", n)
	}

	cfg, found, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("no settings persisted; run EnsureSettings at startup")
	}

	tasks, err := s.store.ListTasks(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Terminal tasks are invisible to the loop.
	live := tasks[:0]
	active, overdue := 0, 0
	for _, t := range tasks {
		if t.Status.IsTerminal() {
			continue
		}
		live = append(live, t)
		if t.Status == task.StatusActive {
			active++
		}
		if t.IsOverdue(now) {
			overdue++
		}
	}
	if len(live) == 0 {
		logging.LoopDebug("Scoring sense: no live tasks")
		return nil, nil
	}

	return &ScoringPercept{
		Tasks:        live,
		Scores:       s.scorer.ScoreAll(live, cfg, now),
		Settings:     cfg,
		ActiveCount:  active,
		OverdueCount: overdue,
		ObservedAt:   now,
	}, nil
}

// scoringPolicy generates recommendations, persists every one of them as an
// audit trail, and releases the first auto-applicable one for actuation.
type scoringPolicy struct {
	store       store.Store
	recommender *recommend.Engine
	limit       int
}

func (p *scoringPolicy) Think(ctx context.Context, percept *ScoringPercept) (*ScoringAction, error) {
	recs := p.recommender.RecommendBatch(
		percept.Scores, percept.ActiveCount, percept.Settings, percept.ObservedAt, p.limit)

	var chosen *recommend.Recommendation
	for _, rec := range recs {
		if err := p.store.InsertRecommendation(ctx, *rec); err != nil {
			return nil, fmt.Errorf("failed to persist recommendation: %w", err)
		}
		if chosen == nil && rec.ShouldAutoApply(percept.Settings, percept.ObservedAt) {
			chosen = rec
		}
	}

	if chosen == nil {
		return nil, nil
	}
	return &ScoringAction{Recommendation: chosen, Settings: percept.Settings}, nil
}

// scoringActuator executes a recommendation's transition against the store.
type scoringActuator struct {
	store store.Store
	clock clock.Clock
}

func (a *scoringActuator) Act(ctx context.Context, action *ScoringAction) (*ScoringResult, error) {
	rec := action.Recommendation
	now := a.clock.Now()
	result := &ScoringResult{TaskID: rec.TaskID, Action: rec.Action, Executed: true}

	t, err := a.store.GetTask(ctx, rec.TaskID)
	if err != nil {
		return result, err
	}

	switch rec.Action {
	case recommend.ActionEscalate:
		err = t.Escalate(now)
	case recommend.ActionAwaken, recommend.ActionReturnToPending:
		err = t.ReturnToPending(now)
	case recommend.ActionActivate:
		err = t.Activate(now)
	case recommend.ActionSnooze:
		snooze := action.Settings.DefaultSnoozeDuration
		if rec.SuggestedSnooze != nil {
			snooze = *rec.SuggestedSnooze
		}
		err = t.Snooze(now.Add(snooze), now)
	default:
		err = fmt.Errorf("unknown recommendation action %q", rec.Action)
	}
	if err != nil {
		// A state conflict means the world moved under us between sense and
		// act. Record the failure; the next tick re-observes.
		if task.IsStateError(err) {
			logging.LoopWarn("Skipped %s on task %s: %v", rec.Action, rec.TaskID, err)
			result.Err = err
			return result, nil
		}
		return result, err
	}

	if err := a.store.UpdateTask(ctx, t); err != nil {
		return result, err
	}
	rec.MarkApplied(now)
	if err := a.store.UpdateRecommendation(ctx, *rec); err != nil {
		return result, err
	}

	result.Success = true
	logging.Loop("Applied %s to task %s (confidence=%.2f)", rec.Action, rec.TaskID, rec.Confidence)
	return result, nil
}

// scoringLearner condenses the tick into one experience for the adaptation
// window.
type scoringLearner struct {
	history *adapt.History
}

func (l *scoringLearner) Learn(ctx context.Context, percept *ScoringPercept, action *ScoringAction, result *ScoringResult) (*adapt.Experience, error) {
	exp := adapt.Experience{
		Timestamp:    percept.ObservedAt,
		TaskCount:    len(percept.Tasks),
		ActiveCount:  percept.ActiveCount,
		OverdueCount: percept.OverdueCount,
	}
	for _, score := range percept.Scores {
		exp.AverageUrgency += score.UrgencyScore
		if score.UrgencyScore > exp.MaxUrgency {
			exp.MaxUrgency = score.UrgencyScore
		}
	}
	if len(percept.Scores) > 0 {
		exp.AverageUrgency /= float64(len(percept.Scores))
	}
	if result != nil {
		exp.ActionExecuted = result.Executed
		exp.ActionSucceeded = result.Success
	}

	l.history.Append(exp)
	logging.LoopDebug("Recorded experience: tasks=%d avgUrgency=%.2f acted=%t",
		exp.TaskCount, exp.AverageUrgency, exp.ActionExecuted)
	return &exp, nil
}

// ScoringLoop is the fast loop: observe, score, recommend, maybe act, and
// feed the experience window.
type ScoringLoop struct {
	engine *Engine[ScoringPercept, ScoringAction, ScoringResult, adapt.Experience]
}

// NewScoringLoop wires the scoring loop's four phases against a store and a
// shared experience history.
func NewScoringLoop(st store.Store, clk clock.Clock, history *adapt.History, recommendationLimit int) *ScoringLoop {
	return &ScoringLoop{
		engine: NewEngine[ScoringPercept, ScoringAction, ScoringResult, adapt.Experience](
			"scoring",
			&scoringSensor{store: st, scorer: scoring.NewEngine(), clock: clk},
			&scoringPolicy{store: st, recommender: recommend.NewEngine(), limit: recommendationLimit},
			&scoringActuator{store: st, clock: clk},
			&scoringLearner{history: history},
		),
	}
}

// Step runs one scoring tick. worked=false is the no-work signal.
func (l *ScoringLoop) Step(ctx context.Context) (worked bool, err error) {
	tick, err := l.engine.Step(ctx)
	if err != nil {
		return false, err
	}
	return tick != nil, nil
}
