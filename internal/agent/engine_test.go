package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stub phases for the generic engine. Percept/action/result/experience are
// all plain ints so the tests read as pure plumbing checks.
type stubSensor struct {
	percept *int
	err     error
}

func (s *stubSensor) Sense(ctx context.Context) (*int, error) { return s.percept, s.err }

type stubPolicy struct {
	action *int
	err    error
	sawNil bool
	calls  int
}

func (p *stubPolicy) Think(ctx context.Context, percept *int) (*int, error) {
	p.calls++
	p.sawNil = percept == nil
	return p.action, p.err
}

type stubActuator struct {
	result *int
	err    error
	calls  int
}

func (a *stubActuator) Act(ctx context.Context, action *int) (*int, error) {
	a.calls++
	return a.result, a.err
}

type stubLearner struct {
	exp       *int
	err       error
	calls     int
	gotAction *int
	gotResult *int
}

func (l *stubLearner) Learn(ctx context.Context, percept, action, result *int) (*int, error) {
	l.calls++
	l.gotAction = action
	l.gotResult = result
	return l.exp, l.err
}

func intp(v int) *int { return &v }

func TestStepFullCycle(t *testing.T) {
	policy := &stubPolicy{action: intp(2)}
	actuator := &stubActuator{result: intp(3)}
	learner := &stubLearner{exp: intp(4)}
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{percept: intp(1)}, policy, actuator, learner)

	tick, err := engine.Step(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, 1, *tick.Percept)
	assert.Equal(t, 2, *tick.Action)
	assert.Equal(t, 3, *tick.Result)
	assert.Equal(t, 4, *tick.Experience)
}

func TestStepNoPerceptIsNoWork(t *testing.T) {
	policy := &stubPolicy{}
	actuator := &stubActuator{}
	learner := &stubLearner{}
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{}, policy, actuator, learner)

	tick, err := engine.Step(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tick, "absent percept means an absent tick")
	assert.Zero(t, policy.calls, "absence propagates: think never runs")
	assert.Zero(t, actuator.calls)
	assert.Zero(t, learner.calls)
}

func TestStepNoActionSkipsActuator(t *testing.T) {
	actuator := &stubActuator{}
	learner := &stubLearner{exp: intp(9)}
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{percept: intp(1)}, &stubPolicy{}, actuator, learner)

	tick, err := engine.Step(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tick, "a percept alone still makes a tick")
	assert.Zero(t, actuator.calls)
	assert.Equal(t, 1, learner.calls, "quiet ticks still reach the learner")
	assert.Nil(t, learner.gotAction)
	assert.Nil(t, learner.gotResult)
}

func TestStepActFailureStillLearns(t *testing.T) {
	actErr := errors.New("store unavailable")
	learner := &stubLearner{}
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{percept: intp(1)},
		&stubPolicy{action: intp(2)},
		&stubActuator{err: actErr},
		learner)

	tick, err := engine.Step(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, actErr)
	require.NotNil(t, tick, "the partial tick comes back with the error")
	assert.Equal(t, 1, learner.calls)
}

func TestStepSenseError(t *testing.T) {
	senseErr := errors.New("db locked")
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{err: senseErr}, &stubPolicy{}, &stubActuator{}, &stubLearner{})

	tick, err := engine.Step(context.Background())
	assert.ErrorIs(t, err, senseErr)
	assert.Nil(t, tick)
}

func TestStepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := &stubPolicy{}
	engine := NewEngine[int, int, int, int]("test",
		&stubSensor{percept: intp(1)}, policy, &stubActuator{}, &stubLearner{})

	_, err := engine.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, policy.calls)
}
