package agent

import (
	"context"
	"errors"

	"taskpilot/internal/adapt"
	"taskpilot/internal/clock"
	"taskpilot/internal/logging"
	"taskpilot/internal/store"
	"taskpilot/internal/task"
)

// AdaptAction is a decided settings change plus the settings it was decided
// against. Carrying the baseline keeps apply honest if the store moves.
type AdaptAction struct {
	Adaptation adapt.Adaptation
	Baseline   adapt.Analysis
}

// AdaptResult reports whether a settings change landed.
type AdaptResult struct {
	Applied *adapt.Applied
	Success bool
	Err     error
}

// AdaptOutcome is what the adaptation loop learns from its own tick.
type AdaptOutcome struct {
	Type    adapt.Type
	Applied bool
}

// adaptSensor analyzes the experience window against live store counts.
type adaptSensor struct {
	store  store.Store
	engine *adapt.Engine
	clock  clock.Clock
}

func (s *adaptSensor) Sense(ctx context.Context) (*adapt.Analysis, error) {
	now := s.clock.Now()

	cfg, found, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("no settings persisted; run EnsureSettings at startup")
	}

	active, err := s.store.CountByStatus(ctx, task.StatusActive)
	if err != nil {
		return nil, err
	}
	overdueTasks, err := s.store.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	// Analyze returns nil below the minimum window, which is this loop's
	// no-work signal.
	return s.engine.Analyze(cfg, active, len(overdueTasks), now), nil
}

// adaptPolicy runs the ordered adaptation rules.
type adaptPolicy struct {
	engine *adapt.Engine
}

func (p *adaptPolicy) Think(ctx context.Context, analysis *adapt.Analysis) (*AdaptAction, error) {
	ad := p.engine.Decide(analysis)
	if ad == nil {
		logging.AdaptDebug("No adaptation rule fired")
		return nil, nil
	}
	return &AdaptAction{Adaptation: *ad, Baseline: *analysis}, nil
}

// adaptActuator applies the settings change and persists it.
type adaptActuator struct {
	store  store.Store
	engine *adapt.Engine
	clock  clock.Clock
}

func (a *adaptActuator) Act(ctx context.Context, action *AdaptAction) (*AdaptResult, error) {
	now := a.clock.Now()

	applied, err := a.engine.Apply(action.Baseline.Settings, action.Adaptation, now)
	if err != nil {
		// A consistency violation aborts this adaptation but not the loop.
		logging.Adapt("Adaptation %s aborted: %v", action.Adaptation.Type, err)
		return &AdaptResult{Err: err}, nil
	}

	if err := a.store.SaveSettings(ctx, applied.Updated); err != nil {
		return &AdaptResult{Applied: &applied, Err: err}, err
	}
	return &AdaptResult{Applied: &applied, Success: true}, nil
}

// adaptLearner records the tick's outcome in the loop log.
type adaptLearner struct{}

func (l *adaptLearner) Learn(ctx context.Context, analysis *adapt.Analysis, action *AdaptAction, result *AdaptResult) (*AdaptOutcome, error) {
	if action == nil {
		return nil, nil
	}
	outcome := &AdaptOutcome{Type: action.Adaptation.Type}
	if result != nil && result.Success {
		outcome.Applied = true
		logging.Adapt("Settings adapted: %s (max_active=%d escalation=%dh min_confidence=%.2f)",
			outcome.Type,
			result.Applied.Updated.MaxActiveTasks,
			result.Applied.Updated.EscalationThresholdHours,
			result.Applied.Updated.MinimumConfidenceThreshold)
	}
	return outcome, nil
}

// AdaptLoop is the slow loop: analyze the experience window and tune one
// settings field at a time.
type AdaptLoop struct {
	engine *Engine[adapt.Analysis, AdaptAction, AdaptResult, AdaptOutcome]
}

// NewAdaptLoop wires the adaptation loop against a store and the adaptation
// engine owning the shared history.
func NewAdaptLoop(st store.Store, clk clock.Clock, adapter *adapt.Engine) *AdaptLoop {
	return &AdaptLoop{
		engine: NewEngine[adapt.Analysis, AdaptAction, AdaptResult, AdaptOutcome](
			"adaptation",
			&adaptSensor{store: st, engine: adapter, clock: clk},
			&adaptPolicy{engine: adapter},
			&adaptActuator{store: st, engine: adapter, clock: clk},
			&adaptLearner{},
		),
	}
}

// Step runs one adaptation tick. worked=false is the no-work signal.
func (l *AdaptLoop) Step(ctx context.Context) (worked bool, err error) {
	tick, err := l.engine.Step(ctx)
	if err != nil {
		return false, err
	}
	return tick != nil, nil
}
