package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskpilot/internal/logging"
	"taskpilot/internal/recommend"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// MemoryStore is the in-memory Store used by tests and ephemeral runs.
// Nothing survives process exit.
type MemoryStore struct {
	mu       sync.RWMutex
	tasks    map[string]task.Task
	recs     map[string]recommend.Recommendation
	settings *settings.Settings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]task.Task),
		recs:  make(map[string]recommend.Recommendation),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// =============================================================================
// TASKS
// =============================================================================

func (s *MemoryStore) InsertTask(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	s.tasks[t.ID] = t.Clone()
	logging.StoreDebug("Inserted task %s (memory)", t.ID)
	return nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id string) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	s.tasks[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, status *task.Status) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []task.Task
	for _, t := range s.tasks {
		if status != nil && t.Status != *status {
			continue
		}
		tasks = append(tasks, t.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *MemoryStore) ListOverdue(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []task.Task
	for _, t := range s.tasks {
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != task.StatusCompleted {
			tasks = append(tasks, t.Clone())
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
	return tasks, nil
}

func (s *MemoryStore) ListAwaitingAwaken(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []task.Task
	for _, t := range s.tasks {
		if t.Status == task.StatusSnoozed && t.SnoozedUntil != nil && !t.SnoozedUntil.After(now) {
			tasks = append(tasks, t.Clone())
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].SnoozedUntil.Before(*tasks[j].SnoozedUntil)
	})
	return tasks, nil
}

func (s *MemoryStore) CountByStatus(ctx context.Context, status task.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.Status == status {
			count++
		}
	}
	return count, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *MemoryStore) GetSettings(ctx context.Context) (settings.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return settings.Settings{}, false, nil
	}
	return s.settings.Clone(), true, nil
}

func (s *MemoryStore) SaveSettings(ctx context.Context, cfg settings.Settings) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cfg.Clone()
	s.settings = &clone
	return nil
}

func (s *MemoryStore) EnsureSettings(ctx context.Context, now time.Time) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings != nil {
		return s.settings.Clone(), nil
	}
	cfg := settings.Default(now)
	s.settings = &cfg
	return cfg.Clone(), nil
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

func (s *MemoryStore) InsertRecommendation(ctx context.Context, rec recommend.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recs[rec.ID]; exists {
		return fmt.Errorf("recommendation %s already exists", rec.ID)
	}
	s.recs[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetRecommendation(ctx context.Context, id string) (recommend.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[id]
	if !ok {
		return recommend.Recommendation{}, fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

func (s *MemoryStore) UpdateRecommendation(ctx context.Context, rec recommend.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[rec.ID]; !ok {
		return fmt.Errorf("recommendation %s: %w", rec.ID, ErrNotFound)
	}
	s.recs[rec.ID] = rec
	return nil
}

func (s *MemoryStore) ListValidRecommendations(ctx context.Context, now time.Time) ([]recommend.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []recommend.Recommendation
	for _, rec := range s.recs {
		if !rec.IsApplied && now.Before(rec.ExpiresAt) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].GeneratedAt.Before(recs[j].GeneratedAt)
	})
	return recs, nil
}

func (s *MemoryStore) PruneExpiredRecommendations(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, rec := range s.recs {
		if !rec.IsApplied && !now.Before(rec.ExpiresAt) {
			delete(s.recs, id)
			pruned++
		}
	}
	return pruned, nil
}
