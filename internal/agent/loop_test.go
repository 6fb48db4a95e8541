package agent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taskpilot/internal/adapt"
	"taskpilot/internal/clock"
	"taskpilot/internal/recommend"
	"taskpilot/internal/settings"
	"taskpilot/internal/store"
	"taskpilot/internal/task"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *store.MemoryStore
	clock   *clock.FakeClock
	history *adapt.History
	loop    *ScoringLoop
}

func newFixture(t *testing.T, mutate func(*settings.Settings)) *fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	clk := clock.NewFakeClock(testNow)

	cfg, err := st.EnsureSettings(ctx, testNow)
	require.NoError(t, err)
	if mutate != nil {
		mutate(&cfg)
		require.NoError(t, st.SaveSettings(ctx, cfg))
	}

	history := adapt.NewHistory()
	return &fixture{
		store:   st,
		clock:   clk,
		history: history,
		loop:    NewScoringLoop(st, clk, history, 10),
	}
}

func TestScoringLoopNoTasksIsNoWork(t *testing.T) {
	f := newFixture(t, nil)
	worked, err := f.loop.Step(context.Background())
	require.NoError(t, err)
	assert.False(t, worked)
	assert.Zero(t, f.history.Len(), "no percept, no experience")
}

func TestScoringLoopTerminalTasksOnlyIsNoWork(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tk, err := task.New("done already", "", task.PriorityHigh, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, tk.Complete(testNow))
	require.NoError(t, f.store.InsertTask(ctx, *tk))

	worked, err := f.loop.Step(ctx)
	require.NoError(t, err)
	assert.False(t, worked)
}

func TestScoringLoopEscalatesOverdueTask(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) {
		s.EscalationThresholdHours = 1
	})
	ctx := context.Background()

	due := testNow.Add(-2 * time.Hour)
	tk, err := task.New("ship the fix", "", task.PriorityCritical, &due, testNow.Add(-3*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.store.InsertTask(ctx, *tk))

	worked, err := f.loop.Step(ctx)
	require.NoError(t, err)
	assert.True(t, worked)

	got, err := f.store.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusEscalated, got.Status)
	assert.Equal(t, task.PriorityCritical, got.Priority)
	assert.Equal(t, 1, got.EscalationCount)

	// The recommendation was marked applied, so the valid list is empty.
	recs, err := f.store.ListValidRecommendations(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.Equal(t, 1, f.history.Len())
	exp := f.history.Snapshot()[0]
	assert.True(t, exp.ActionExecuted)
	assert.True(t, exp.ActionSucceeded)
}

func TestScoringLoopAwakensSnoozedTask(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tk, err := task.New("sleeping", "", task.PriorityMedium, nil, testNow.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, tk.Snooze(testNow.Add(-time.Second), testNow.Add(-time.Hour)))
	require.NoError(t, f.store.InsertTask(ctx, *tk))

	worked, err := f.loop.Step(ctx)
	require.NoError(t, err)
	assert.True(t, worked)

	got, err := f.store.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, got.Status)
	assert.Nil(t, got.SnoozedUntil)
}

func TestScoringLoopRespectsAutoApplyOff(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) {
		s.AutoApplyRecommendations = false
		s.EscalationThresholdHours = 1
	})
	ctx := context.Background()

	due := testNow.Add(-2 * time.Hour)
	tk, err := task.New("waiting for a human", "", task.PriorityCritical, &due, testNow.Add(-3*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.store.InsertTask(ctx, *tk))

	worked, err := f.loop.Step(ctx)
	require.NoError(t, err)
	assert.True(t, worked, "observation alone is still work")

	got, err := f.store.GetTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, got.Status, "nothing executed")

	recs, err := f.store.ListValidRecommendations(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, recs, 1, "the recommendation is persisted for the user")
	assert.False(t, recs[0].IsApplied)

	exp := f.history.Snapshot()
	require.Len(t, exp, 1)
	assert.False(t, exp[0].ActionExecuted)
}

func TestScoringLoopPrunesExpiredWithoutActing(t *testing.T) {
	f := newFixture(t, func(s *settings.Settings) {
		s.AutoApplyRecommendations = false
	})
	ctx := context.Background()

	tk, err := task.New("just pending", "", task.PriorityLow, nil, testNow)
	require.NoError(t, err)
	require.NoError(t, f.store.InsertTask(ctx, *tk))

	stale := recommend.Recommendation{
		ID: "stale", TaskID: tk.ID, Action: recommend.ActionActivate,
		Confidence: 0.8, GeneratedAt: testNow.Add(-2 * time.Hour),
		ExpiresAt: testNow.Add(-time.Hour),
	}
	require.NoError(t, f.store.InsertRecommendation(ctx, stale))

	worked, err := f.loop.Step(ctx)
	require.NoError(t, err)
	assert.True(t, worked)

	// Pruning rides the tick itself; it must not wait for an auto-apply.
	_, err = f.store.GetRecommendation(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdaptLoopBelowWindowIsNoWork(t *testing.T) {
	f := newFixture(t, nil)
	adaptLoop := NewAdaptLoop(f.store, f.clock, adapt.NewEngine(f.history))

	worked, err := adaptLoop.Step(context.Background())
	require.NoError(t, err)
	assert.False(t, worked)
}

func TestAdaptLoopIncreasesCapacity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// Saturate the active set: 9 of 10 slots.
	for i := 0; i < 9; i++ {
		tk, err := task.New("busy", "", task.PriorityHigh, nil, testNow)
		require.NoError(t, err)
		require.NoError(t, tk.Activate(testNow))
		require.NoError(t, f.store.InsertTask(ctx, *tk))
	}

	for i := 0; i < 6; i++ {
		f.history.Append(adapt.Experience{
			Timestamp:      testNow.Add(time.Duration(i) * 5 * time.Second),
			TaskCount:      9,
			ActiveCount:    9,
			AverageUrgency: 0.80,
			MaxUrgency:     0.90,
		})
	}

	adaptLoop := NewAdaptLoop(f.store, f.clock, adapt.NewEngine(f.history))
	worked, err := adaptLoop.Step(ctx)
	require.NoError(t, err)
	assert.True(t, worked)

	cfg, found, err := f.store.GetSettings(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 15, cfg.MaxActiveTasks)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t, nil)
	runner := NewRunner()
	runner.Add(LoopConfig{
		Name:     "scoring",
		Interval: time.Millisecond,
		Backoff:  time.Millisecond,
	}, f.loop.Step)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "clean cancellation is not an error")
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunnerContainsPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ticks atomic.Int64
	runner := NewRunner()
	runner.Add(LoopConfig{
		Name:     "explosive",
		Interval: time.Millisecond,
		Backoff:  time.Millisecond,
	}, func(ctx context.Context) (bool, error) {
		ticks.Add(1)
		panic("tick went sideways")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	time.Sleep(25 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}

	assert.Greater(t, ticks.Load(), int64(2), "the loop survived repeated panics")
}

func TestRunnerHonorsStartupDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	var ticks atomic.Int64
	runner := NewRunner()
	runner.Add(LoopConfig{
		Name:         "delayed",
		Interval:     time.Millisecond,
		Backoff:      time.Millisecond,
		StartupDelay: time.Hour,
	}, func(ctx context.Context) (bool, error) {
		ticks.Add(1)
		return true, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop during startup delay")
	}
	assert.Zero(t, ticks.Load(), "no tick before the startup delay elapses")
}
