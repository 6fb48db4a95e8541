package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/scoring"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func makeScore(t *testing.T, status task.Status, urgency float64) scoring.TaskScore {
	t.Helper()
	tk, err := task.New("candidate", "", task.PriorityMedium, nil, testNow)
	require.NoError(t, err)
	tk.Status = status
	return scoring.TaskScore{Task: *tk, UrgencyScore: urgency}
}

func TestRecommendEmptyInput(t *testing.T) {
	cfg := settings.Default(testNow)
	assert.Nil(t, NewEngine().Recommend(nil, 0, cfg, testNow))
}

func TestRuleEscalate(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusPending, 0.90)
	due := testNow.Add(-30 * time.Hour)
	score.Task.DueDate = &due
	score.ShouldEscalate = true

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionEscalate, rec.Action)
	assert.Equal(t, 0.95, rec.Confidence)
	require.NotNil(t, rec.SuggestedPriority)
	assert.Equal(t, task.PriorityCritical, *rec.SuggestedPriority)
	assert.Equal(t, score.Task.ID, rec.TaskID)
	assert.Equal(t, testNow.Add(cfg.RecommendationValidityDuration), rec.ExpiresAt)
}

func TestRuleAwaken(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusSnoozed, 0.10)
	score.ShouldAwaken = true

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionAwaken, rec.Action)
	assert.Equal(t, 1.00, rec.Confidence)

	cfg.AutoAwakenSnoozedTasks = false
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow),
		"toggle off suppresses awaken")
}

func TestEscalateOutranksAwaken(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusSnoozed, 0.90)
	score.ShouldEscalate = true
	score.ShouldAwaken = true

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionEscalate, rec.Action)
}

func TestRuleActivate(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusPending, 0.75)

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 3, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionActivate, rec.Action)
	assert.Equal(t, 0.75, rec.Confidence, "confidence carries the urgency score")

	// Full active set blocks activation.
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{score}, cfg.MaxActiveTasks, cfg, testNow))

	// Urgency under the floor falls through to no recommendation.
	calm := makeScore(t, task.StatusPending, 0.69)
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{calm}, 3, cfg, testNow))
}

func TestRuleSnooze(t *testing.T) {
	cfg := settings.Default(testNow) // maxActive 10, load threshold 8
	score := makeScore(t, task.StatusPending, 0.20)

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 8, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionSnooze, rec.Action)
	assert.Equal(t, 0.70, rec.Confidence)
	require.NotNil(t, rec.SuggestedSnooze)
	assert.Equal(t, cfg.DefaultSnoozeDuration, *rec.SuggestedSnooze)

	// Below the load factor there is no pressure to snooze.
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{score}, 7, cfg, testNow))

	// Overdue work is never snoozed.
	due := testNow.Add(-time.Hour)
	overdue := makeScore(t, task.StatusPending, 0.20)
	overdue.Task.DueDate = &due
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{overdue}, 8, cfg, testNow))
}

func TestRuleReturnToPending(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusActive, 0.35)

	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 2, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionReturnToPending, rec.Action)
	assert.Equal(t, 0.65, rec.Confidence)

	// Active and low-urgency under high load prefers snooze (rule 4 first).
	low := makeScore(t, task.StatusActive, 0.20)
	rec = NewEngine().Recommend([]scoring.TaskScore{low}, 9, cfg, testNow)
	require.NotNil(t, rec)
	assert.Equal(t, ActionSnooze, rec.Action)
}

func TestNoRuleMatches(t *testing.T) {
	cfg := settings.Default(testNow)
	// Mid-urgency active task, low load: nothing fires.
	score := makeScore(t, task.StatusActive, 0.55)
	assert.Nil(t, NewEngine().Recommend([]scoring.TaskScore{score}, 2, cfg, testNow))
}

func TestRecommendBatch(t *testing.T) {
	cfg := settings.Default(testNow)
	scores := []scoring.TaskScore{
		makeScore(t, task.StatusPending, 0.90),
		makeScore(t, task.StatusPending, 0.80),
		makeScore(t, task.StatusPending, 0.75),
		makeScore(t, task.StatusActive, 0.55), // no rule fires
	}

	recs := NewEngine().RecommendBatch(scores, 0, cfg, testNow, 0)
	assert.Len(t, recs, 3)

	recs = NewEngine().RecommendBatch(scores, 0, cfg, testNow, 2)
	assert.Len(t, recs, 2, "limit caps batch output")
}

func TestRecommendationValidity(t *testing.T) {
	cfg := settings.Default(testNow)
	score := makeScore(t, task.StatusPending, 0.80)
	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow)
	require.NotNil(t, rec)

	assert.True(t, rec.IsValid(testNow))
	assert.False(t, rec.IsValid(rec.ExpiresAt), "expiry boundary is invalid")

	rec.MarkApplied(testNow)
	assert.False(t, rec.IsValid(testNow))
	require.NotNil(t, rec.AppliedAt)

	// MarkApplied is idempotent on the timestamp.
	first := *rec.AppliedAt
	rec.MarkApplied(testNow.Add(time.Hour))
	assert.Equal(t, first, *rec.AppliedAt)
}

func TestShouldAutoApply(t *testing.T) {
	cfg := settings.Default(testNow) // minConfidence 0.70, auto-apply on
	score := makeScore(t, task.StatusPending, 0.75)
	rec := NewEngine().Recommend([]scoring.TaskScore{score}, 0, cfg, testNow)
	require.NotNil(t, rec)

	assert.True(t, rec.ShouldAutoApply(cfg, testNow))

	cfg.MinimumConfidenceThreshold = 0.80
	assert.False(t, rec.ShouldAutoApply(cfg, testNow), "confidence below threshold")

	cfg = settings.Default(testNow)
	cfg.AutoApplyRecommendations = false
	assert.False(t, rec.ShouldAutoApply(cfg, testNow), "auto-apply disabled")

	cfg = settings.Default(testNow)
	assert.False(t, rec.ShouldAutoApply(cfg, rec.ExpiresAt.Add(time.Second)), "expired")
}
