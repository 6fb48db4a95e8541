// Package store provides persistence for tasks, settings, and
// recommendations. LocalStore is the SQLite implementation used by the
// host process; MemoryStore backs tests and ephemeral runs. Both satisfy
// the same contracts, and all reads return point-in-time snapshots.
package store

import (
	"context"
	"errors"
	"time"

	"taskpilot/internal/recommend"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// TaskStore is the task persistence contract. Updates are whole-entity
// replacements keyed by id.
type TaskStore interface {
	InsertTask(ctx context.Context, t task.Task) error
	GetTask(ctx context.Context, id string) (task.Task, error)
	UpdateTask(ctx context.Context, t task.Task) error
	DeleteTask(ctx context.Context, id string) error

	// ListTasks returns all tasks, optionally filtered to one status.
	ListTasks(ctx context.Context, status *task.Status) ([]task.Task, error)
	// ListOverdue returns non-completed tasks whose due date is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]task.Task, error)
	// ListAwaitingAwaken returns snoozed tasks whose deadline has passed.
	ListAwaitingAwaken(ctx context.Context, now time.Time) ([]task.Task, error)
	CountByStatus(ctx context.Context, status task.Status) (int, error)
}

// SettingsStore is the singleton settings contract. Saves replace the one
// logical row atomically.
type SettingsStore interface {
	// GetSettings returns the current settings, or found=false when none
	// have been persisted yet.
	GetSettings(ctx context.Context) (cfg settings.Settings, found bool, err error)
	SaveSettings(ctx context.Context, cfg settings.Settings) error
	// EnsureSettings returns the current settings, persisting and returning
	// defaults when absent. Calling it twice never creates two records.
	EnsureSettings(ctx context.Context, now time.Time) (settings.Settings, error)
}

// RecommendationStore persists the recommendation audit trail.
type RecommendationStore interface {
	InsertRecommendation(ctx context.Context, rec recommend.Recommendation) error
	GetRecommendation(ctx context.Context, id string) (recommend.Recommendation, error)
	UpdateRecommendation(ctx context.Context, rec recommend.Recommendation) error
	// ListValidRecommendations returns unapplied, unexpired recommendations.
	ListValidRecommendations(ctx context.Context, now time.Time) ([]recommend.Recommendation, error)
	// PruneExpiredRecommendations deletes unapplied recommendations past
	// their expiry and reports how many were removed.
	PruneExpiredRecommendations(ctx context.Context, now time.Time) (int, error)
}

// Store bundles the three contracts the agent needs.
type Store interface {
	TaskStore
	SettingsStore
	RecommendationStore
	Close() error
}
