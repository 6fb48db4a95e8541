// Package task owns the task entity and its lifecycle state machine.
//
// Tasks are created pending and mutated exclusively through the named
// transition operations below; direct field assignment from outside the
// package is never part of the contract. Every successful transition stamps
// UpdatedAt. Completed and rejected are terminal: once reached, every further
// operation fails without touching the entity.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/logging"
)

// Origin identifies which entry point requested a transition so audit logs
// can distinguish agent-driven from user-driven changes.
type Origin string

const (
	OriginAgent Origin = "agent"
	OriginUser  Origin = "user"
)

// Task is a single tracked unit of work.
type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	SnoozedUntil    *time.Time `json:"snoozed_until,omitempty"`
	EscalationCount int        `json:"escalation_count"`
}

// New creates a pending task. Title is required; priority defaults to medium
// when empty. Validation happens before any state exists, so a returned error
// means nothing was created.
func New(title, description string, priority Priority, dueDate *time.Time, now time.Time) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	t := &Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      StatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dueDate != nil {
		due := *dueDate
		t.DueDate = &due
	}

	logging.Tasks("Created task %s (%q, priority=%s)", t.ID, t.Title, t.Priority)
	return t, nil
}

// transition performs the table check shared by every named operation.
func (t *Task) transition(to Status, now time.Time, origin Origin) error {
	if t.Status.IsTerminal() {
		return &TerminalError{TaskID: t.ID, Status: t.Status}
	}
	if !CanTransition(t.Status, to) {
		return &TransitionError{TaskID: t.ID, From: t.Status, To: to}
	}

	from := t.Status
	t.Status = to
	t.UpdatedAt = now
	logging.Tasks("Task %s: %s -> %s (origin=%s)", t.ID, from, to, origin)
	return nil
}

// Activate moves the task into active work. Leaving snoozed this way clears
// the snooze deadline.
func (t *Task) Activate(now time.Time) error {
	return t.activate(now, OriginAgent)
}

// ActivateByUser is the user-driven entry point for Activate.
func (t *Task) ActivateByUser(now time.Time) error {
	return t.activate(now, OriginUser)
}

func (t *Task) activate(now time.Time, origin Origin) error {
	if err := t.transition(StatusActive, now, origin); err != nil {
		return err
	}
	t.SnoozedUntil = nil
	return nil
}

// Snooze defers the task until the given instant, which must be strictly in
// the future.
func (t *Task) Snooze(until, now time.Time) error {
	return t.snooze(until, now, OriginAgent)
}

// SnoozeByUser is the user-driven entry point for Snooze.
func (t *Task) SnoozeByUser(until, now time.Time) error {
	return t.snooze(until, now, OriginUser)
}

func (t *Task) snooze(until, now time.Time, origin Origin) error {
	if t.Status.IsTerminal() {
		return &TerminalError{TaskID: t.ID, Status: t.Status}
	}
	if !until.After(now) {
		return &SnoozeError{Until: until, Now: now}
	}
	if err := t.transition(StatusSnoozed, now, origin); err != nil {
		return err
	}
	u := until
	t.SnoozedUntil = &u
	return nil
}

// Escalate forces the task to critical priority and increments the
// escalation count. The table has no escalated self-loop, so a second
// escalate fails rather than double-counting.
func (t *Task) Escalate(now time.Time) error {
	if err := t.transition(StatusEscalated, now, OriginAgent); err != nil {
		return err
	}
	t.Priority = PriorityCritical
	t.EscalationCount++
	return nil
}

// Complete finishes the task. Terminal: no transition leaves completed.
func (t *Task) Complete(now time.Time) error {
	return t.complete(now, OriginAgent)
}

// CompleteByUser is the user-driven entry point for Complete.
func (t *Task) CompleteByUser(now time.Time) error {
	return t.complete(now, OriginUser)
}

func (t *Task) complete(now time.Time, origin Origin) error {
	if err := t.transition(StatusCompleted, now, origin); err != nil {
		return err
	}
	done := now
	t.CompletedAt = &done
	return nil
}

// ReturnToPending puts the task back in the pending pool and clears any
// snooze deadline. This is also how a snoozed task awakens.
func (t *Task) ReturnToPending(now time.Time) error {
	if err := t.transition(StatusPending, now, OriginAgent); err != nil {
		return err
	}
	t.SnoozedUntil = nil
	return nil
}

// Reject discards the task. Terminal: no transition leaves rejected.
func (t *Task) Reject(now time.Time) error {
	return t.reject(now, OriginAgent)
}

// RejectByUser is the user-driven entry point for Reject.
func (t *Task) RejectByUser(now time.Time) error {
	return t.reject(now, OriginUser)
}

func (t *Task) reject(now time.Time, origin Origin) error {
	return t.transition(StatusRejected, now, origin)
}

// IsOverdue reports whether the task has a due date in the past and is not
// completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// OverdueBy returns how far past due the task is, or zero if it is not
// overdue.
func (t *Task) OverdueBy(now time.Time) time.Duration {
	if !t.IsOverdue(now) {
		return 0
	}
	return now.Sub(*t.DueDate)
}

// ShouldAwaken reports whether a snoozed task's deadline has passed.
func (t *Task) ShouldAwaken(now time.Time) bool {
	if t.Status != StatusSnoozed || t.SnoozedUntil == nil {
		return false
	}
	return !t.SnoozedUntil.After(now)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() Task {
	out := *t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		out.CompletedAt = &done
	}
	if t.SnoozedUntil != nil {
		u := *t.SnoozedUntil
		out.SnoozedUntil = &u
	}
	return out
}
