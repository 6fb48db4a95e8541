// Package agent contains the autonomous loop machinery: a generic
// Sense-Think-Act-Learn tick engine, the two concrete loops built on it
// (scoring and adaptation), and the runner that supervises them.
package agent

import (
	"context"
	"fmt"
)

// Sensor produces a percept from the environment. A nil percept means there
// is nothing to perceive this tick.
type Sensor[P any] interface {
	Sense(ctx context.Context) (*P, error)
}

// Policy turns a percept into an action. A nil action means observation
// yielded nothing worth doing.
type Policy[P, A any] interface {
	Think(ctx context.Context, percept *P) (*A, error)
}

// Actuator executes an action against the environment.
type Actuator[A, R any] interface {
	Act(ctx context.Context, action *A) (*R, error)
}

// Learner records what happened. It runs whenever a percept existed, even
// when no action was taken or the action failed, so quiet ticks still feed
// the experience window.
type Learner[P, A, R, E any] interface {
	Learn(ctx context.Context, percept *P, action *A, result *R) (*E, error)
}

// Tick captures the outputs of one engine step. Absent phases are nil.
type Tick[P, A, R, E any] struct {
	Percept    *P
	Action     *A
	Result     *R
	Experience *E
	ActErr     error
}

// Engine drives one Sense-Think-Act-Learn cycle per Step call. Absence
// propagates forward: no percept skips the remaining phases entirely, no
// action skips actuation. A step where every phase produced nothing returns
// a nil tick, which callers treat as the no-work signal.
type Engine[P, A, R, E any] struct {
	name     string
	sensor   Sensor[P]
	policy   Policy[P, A]
	actuator Actuator[A, R]
	learner  Learner[P, A, R, E]
}

// NewEngine assembles a tick engine from its four phases.
func NewEngine[P, A, R, E any](
	name string,
	sensor Sensor[P],
	policy Policy[P, A],
	actuator Actuator[A, R],
	learner Learner[P, A, R, E],
) *Engine[P, A, R, E] {
	return &Engine[P, A, R, E]{
		name:     name,
		sensor:   sensor,
		policy:   policy,
		actuator: actuator,
		learner:  learner,
	}
}

// Name returns the engine's loop name.
func (e *Engine[P, A, R, E]) Name() string {
	return e.name
}

// Step runs one full cycle. Returns (nil, nil) when there was no work. An
// actuation failure does not abort the cycle: the learner still runs with
// the partial tick, and the error comes back alongside the tick so the
// caller can back off.
func (e *Engine[P, A, R, E]) Step(ctx context.Context) (*Tick[P, A, R, E], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	percept, err := e.sensor.Sense(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s sense: %w", e.name, err)
	}
	if percept == nil {
		return nil, nil
	}

	tick := &Tick[P, A, R, E]{Percept: percept}

	tick.Action, err = e.policy.Think(ctx, percept)
	if err != nil {
		return tick, fmt.Errorf("%s think: %w", e.name, err)
	}

	if tick.Action != nil {
		tick.Result, tick.ActErr = e.actuator.Act(ctx, tick.Action)
	}

	tick.Experience, err = e.learner.Learn(ctx, percept, tick.Action, tick.Result)
	if err != nil {
		return tick, fmt.Errorf("%s learn: %w", e.name, err)
	}

	if tick.ActErr != nil {
		return tick, fmt.Errorf("%s act: %w", e.name, tick.ActErr)
	}
	return tick, nil
}
