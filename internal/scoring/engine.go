// Package scoring computes per-task urgency scores for the agent's scoring
// loop. The score blends three weights - priority, time pressure, and
// lifecycle status - into a single [0, 1] urgency figure, and flags tasks
// that should be escalated or awakened this tick.
package scoring

import (
	"math"
	"sort"
	"time"

	"taskpilot/internal/logging"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// Blend weights. Priority dominates, then time pressure, then status.
const (
	priorityBlend = 0.40
	timeBlend     = 0.35
	statusBlend   = 0.25
)

// TaskScore is the scored view of a single task for one tick.
type TaskScore struct {
	Task           task.Task
	PriorityWeight float64
	TimeWeight     float64
	StatusWeight   float64
	UrgencyScore   float64
	ShouldEscalate bool
	ShouldAwaken   bool
}

// Engine scores tasks. It holds no state; every call is a pure function of
// its inputs plus the supplied instant.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the urgency score and action flags for a single task.
// Terminal tasks are the caller's responsibility to filter; scoring one
// anyway yields a zero status weight rather than an error.
func (e *Engine) Score(t task.Task, cfg settings.Settings, now time.Time) TaskScore {
	pw := t.Priority.Weight()
	tw := timeWeight(t, now)
	sw := statusWeight(t.Status)

	score := TaskScore{
		Task:           t,
		PriorityWeight: pw,
		TimeWeight:     tw,
		StatusWeight:   sw,
		UrgencyScore:   priorityBlend*pw + timeBlend*tw + statusBlend*sw,
		ShouldAwaken:   t.ShouldAwaken(now),
	}

	if t.Status != task.StatusEscalated &&
		cfg.AutoEscalateOverdueTasks &&
		t.OverdueBy(now) >= cfg.EscalationThreshold() {
		score.ShouldEscalate = true
	}

	return score
}

// ScoreAll filters out terminal tasks, scores the rest, and returns them in
// descending urgency order. Ties break by priority (higher first), then by
// creation time (older first), so the head of the list is always the single
// most urgent pick.
func (e *Engine) ScoreAll(tasks []task.Task, cfg settings.Settings, now time.Time) []TaskScore {
	timer := logging.StartTimer(logging.CategoryScoring, "ScoreAll")
	defer timer.Stop()

	scores := make([]TaskScore, 0, len(tasks))
	for _, t := range tasks {
		if t.Status.IsTerminal() {
			continue
		}
		scores = append(scores, e.Score(t, cfg, now))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.UrgencyScore != b.UrgencyScore {
			return a.UrgencyScore > b.UrgencyScore
		}
		if a.Task.Priority.Rank() != b.Task.Priority.Rank() {
			return a.Task.Priority.Rank() > b.Task.Priority.Rank()
		}
		return a.Task.CreatedAt.Before(b.Task.CreatedAt)
	})

	logging.ScoringDebug("Scored %d/%d tasks", len(scores), len(tasks))
	return scores
}

// timeWeight maps time pressure to [0, 1]. Tasks without a due date carry a
// constant baseline; overdue tasks climb with each overdue day; tasks not
// yet due step down as the deadline recedes.
func timeWeight(t task.Task, now time.Time) float64 {
	if t.DueDate == nil {
		return 0.30
	}

	if t.IsOverdue(now) {
		overdueDays := now.Sub(*t.DueDate).Hours() / 24
		return math.Min(1.0, 0.80+overdueDays*0.05)
	}

	hoursLeft := t.DueDate.Sub(now).Hours()
	switch {
	case hoursLeft <= 1:
		return 0.95
	case hoursLeft <= 4:
		return 0.85
	case hoursLeft <= 12:
		return 0.70
	case hoursLeft <= 24:
		return 0.55
	case hoursLeft <= 72:
		return 0.40
	default:
		return 0.25
	}
}

// statusWeight maps lifecycle state to attention pressure.
func statusWeight(s task.Status) float64 {
	switch s {
	case task.StatusEscalated:
		return 1.00
	case task.StatusActive:
		return 0.80
	case task.StatusPending:
		return 0.60
	case task.StatusSnoozed:
		return 0.20
	default:
		return 0.00
	}
}
