package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskpilot/internal/logging"
	"taskpilot/internal/recommend"
	"taskpilot/internal/settings"
	"taskpilot/internal/task"
)

// timeLayout is the canonical on-disk timestamp format. Fixed-width
// fractional seconds and a forced UTC zone keep SQLite's lexicographic
// string comparisons equivalent to chronological order; RFC3339Nano would
// drop trailing zeros and leak local offsets into the column.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// LocalStore implements the task, settings and recommendation contracts on
// SQLite. One connection, WAL journal. The settings row is a physical
// singleton (id = 1) replaced inside a transaction so concurrent writers
// cannot interleave a remove-then-add.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	store := &LocalStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore initialization complete")
	return store, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	tasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		due_date TEXT,
		completed_at TEXT,
		snoozed_until TEXT,
		escalation_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
	`

	// id is constrained to 1: the settings row is a physical singleton.
	settingsTable := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		max_active_tasks INTEGER NOT NULL,
		escalation_threshold_hours INTEGER NOT NULL,
		minimum_confidence_threshold REAL NOT NULL,
		default_snooze_ns INTEGER NOT NULL,
		recommendation_validity_ns INTEGER NOT NULL,
		auto_apply_recommendations INTEGER NOT NULL,
		auto_escalate_overdue_tasks INTEGER NOT NULL,
		auto_awaken_snoozed_tasks INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	recommendationsTable := `
	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		action TEXT NOT NULL,
		reasoning TEXT,
		confidence REAL NOT NULL,
		suggested_priority TEXT,
		suggested_snooze_ns INTEGER,
		generated_at TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		is_applied INTEGER NOT NULL DEFAULT 0,
		applied_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_recommendations_task ON recommendations(task_id);
	CREATE INDEX IF NOT EXISTS idx_recommendations_expires ON recommendations(expires_at);
	`

	for _, table := range []string{tasksTable, settingsTable, recommendationsTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	logging.Store("Closing LocalStore database connection")
	return s.db.Close()
}

// =============================================================================
// TASKS
// =============================================================================

const taskColumns = `id, title, description, status, priority, created_at, updated_at,
	due_date, completed_at, snoozed_until, escalation_count`

// InsertTask persists a new task.
func (s *LocalStore) InsertTask(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), string(t.Priority),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		formatNullableTime(t.DueDate), formatNullableTime(t.CompletedAt),
		formatNullableTime(t.SnoozedUntil), t.EscalationCount)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
	}
	logging.StoreDebug("Inserted task %s", t.ID)
	return nil
}

// GetTask returns the task with the given id.
func (s *LocalStore) GetTask(ctx context.Context, id string) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return task.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to load task %s: %w", id, err)
	}
	return t, nil
}

// UpdateTask replaces the stored task keyed by id.
func (s *LocalStore) UpdateTask(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
			created_at = ?, updated_at = ?, due_date = ?, completed_at = ?,
			snoozed_until = ?, escalation_count = ?
		WHERE id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		formatNullableTime(t.DueDate), formatNullableTime(t.CompletedAt),
		formatNullableTime(t.SnoozedUntil), t.EscalationCount, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	logging.StoreDebug("Updated task %s (status=%s)", t.ID, t.Status)
	return nil
}

// DeleteTask removes a task. Administrative operation; the agent loops never
// call it.
func (s *LocalStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListTasks returns all tasks, optionally filtered to one status, ordered by
// creation time.
func (s *LocalStore) ListTasks(ctx context.Context, status *task.Status) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListOverdue returns non-completed tasks whose due date is before now.
func (s *LocalStore) ListOverdue(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE due_date IS NOT NULL AND due_date < ? AND status != ?
		ORDER BY due_date`,
		formatTime(now), string(task.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListAwaitingAwaken returns snoozed tasks whose snooze deadline has passed.
func (s *LocalStore) ListAwaitingAwaken(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ? AND snoozed_until IS NOT NULL AND snoozed_until <= ?
		ORDER BY snoozed_until`,
		string(task.StatusSnoozed), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list awaken candidates: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// CountByStatus returns how many tasks are in the given status.
func (s *LocalStore) CountByStatus(ctx context.Context, status task.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks by status %s: %w", status, err)
	}
	return count, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the singleton settings row, or found=false when no
// settings have been persisted yet.
func (s *LocalStore) GetSettings(ctx context.Context) (settings.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSettingsLocked(ctx)
}

func (s *LocalStore) getSettingsLocked(ctx context.Context) (settings.Settings, bool, error) {
	var cfg settings.Settings
	var snoozeNs, validityNs int64
	var autoApply, autoEscalate, autoAwaken int
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT max_active_tasks, escalation_threshold_hours, minimum_confidence_threshold,
			default_snooze_ns, recommendation_validity_ns,
			auto_apply_recommendations, auto_escalate_overdue_tasks, auto_awaken_snoozed_tasks,
			updated_at
		FROM settings WHERE id = 1`).Scan(
		&cfg.MaxActiveTasks, &cfg.EscalationThresholdHours, &cfg.MinimumConfidenceThreshold,
		&snoozeNs, &validityNs, &autoApply, &autoEscalate, &autoAwaken, &updatedAt)
	if err == sql.ErrNoRows {
		return settings.Settings{}, false, nil
	}
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg.DefaultSnoozeDuration = time.Duration(snoozeNs)
	cfg.RecommendationValidityDuration = time.Duration(validityNs)
	cfg.AutoApplyRecommendations = autoApply != 0
	cfg.AutoEscalateOverdueTasks = autoEscalate != 0
	cfg.AutoAwakenSnoozedTasks = autoAwaken != 0
	cfg.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to parse settings timestamp: %w", err)
	}
	return cfg, true, nil
}

// SaveSettings replaces the singleton settings row. The whole replacement
// runs in one transaction so a concurrent reader never sees a missing row.
func (s *LocalStore) SaveSettings(ctx context.Context, cfg settings.Settings) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSettingsLocked(ctx, cfg)
}

func (s *LocalStore) saveSettingsLocked(ctx context.Context, cfg settings.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settings transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (id, max_active_tasks, escalation_threshold_hours,
			minimum_confidence_threshold, default_snooze_ns, recommendation_validity_ns,
			auto_apply_recommendations, auto_escalate_overdue_tasks, auto_awaken_snoozed_tasks,
			updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			max_active_tasks = excluded.max_active_tasks,
			escalation_threshold_hours = excluded.escalation_threshold_hours,
			minimum_confidence_threshold = excluded.minimum_confidence_threshold,
			default_snooze_ns = excluded.default_snooze_ns,
			recommendation_validity_ns = excluded.recommendation_validity_ns,
			auto_apply_recommendations = excluded.auto_apply_recommendations,
			auto_escalate_overdue_tasks = excluded.auto_escalate_overdue_tasks,
			auto_awaken_snoozed_tasks = excluded.auto_awaken_snoozed_tasks,
			updated_at = excluded.updated_at`,
		cfg.MaxActiveTasks, cfg.EscalationThresholdHours, cfg.MinimumConfidenceThreshold,
		int64(cfg.DefaultSnoozeDuration), int64(cfg.RecommendationValidityDuration),
		boolToInt(cfg.AutoApplyRecommendations), boolToInt(cfg.AutoEscalateOverdueTasks),
		boolToInt(cfg.AutoAwakenSnoozedTasks), formatTime(cfg.UpdatedAt))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	logging.StoreDebug("Saved settings (max_active=%d)", cfg.MaxActiveTasks)
	return nil
}

// EnsureSettings returns the current settings, persisting defaults first if
// none exist. Holding the write lock across the read-then-write makes a
// double call create exactly one record.
func (s *LocalStore) EnsureSettings(ctx context.Context, now time.Time) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, found, err := s.getSettingsLocked(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	if found {
		return cfg, nil
	}

	cfg = settings.Default(now)
	if err := s.saveSettingsLocked(ctx, cfg); err != nil {
		return settings.Settings{}, err
	}
	logging.Store("Persisted default settings")
	return cfg, nil
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

const recColumns = `id, task_id, action, reasoning, confidence, suggested_priority,
	suggested_snooze_ns, generated_at, expires_at, is_applied, applied_at`

// InsertRecommendation persists a recommendation.
func (s *LocalStore) InsertRecommendation(ctx context.Context, rec recommend.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var priority interface{}
	if rec.SuggestedPriority != nil {
		priority = string(*rec.SuggestedPriority)
	}
	var snoozeNs interface{}
	if rec.SuggestedSnooze != nil {
		snoozeNs = int64(*rec.SuggestedSnooze)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendations (`+recColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TaskID, string(rec.Action), rec.Reasoning, rec.Confidence,
		priority, snoozeNs,
		formatTime(rec.GeneratedAt), formatTime(rec.ExpiresAt),
		boolToInt(rec.IsApplied), formatNullableTime(rec.AppliedAt))
	if err != nil {
		return fmt.Errorf("failed to insert recommendation %s: %w", rec.ID, err)
	}
	return nil
}

// GetRecommendation returns the recommendation with the given id.
func (s *LocalStore) GetRecommendation(ctx context.Context, id string) (recommend.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+recColumns+` FROM recommendations WHERE id = ?`, id)
	rec, err := scanRecommendation(row)
	if err == sql.ErrNoRows {
		return recommend.Recommendation{}, fmt.Errorf("recommendation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return recommend.Recommendation{}, fmt.Errorf("failed to load recommendation %s: %w", id, err)
	}
	return rec, nil
}

// UpdateRecommendation replaces the stored recommendation keyed by id.
func (s *LocalStore) UpdateRecommendation(ctx context.Context, rec recommend.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var priority interface{}
	if rec.SuggestedPriority != nil {
		priority = string(*rec.SuggestedPriority)
	}
	var snoozeNs interface{}
	if rec.SuggestedSnooze != nil {
		snoozeNs = int64(*rec.SuggestedSnooze)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE recommendations SET task_id = ?, action = ?, reasoning = ?, confidence = ?,
			suggested_priority = ?, suggested_snooze_ns = ?, generated_at = ?, expires_at = ?,
			is_applied = ?, applied_at = ?
		WHERE id = ?`,
		rec.TaskID, string(rec.Action), rec.Reasoning, rec.Confidence,
		priority, snoozeNs,
		formatTime(rec.GeneratedAt), formatTime(rec.ExpiresAt),
		boolToInt(rec.IsApplied), formatNullableTime(rec.AppliedAt), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update recommendation %s: %w", rec.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recommendation %s: %w", rec.ID, ErrNotFound)
	}
	return nil
}

// ListValidRecommendations returns unapplied, unexpired recommendations in
// generation order.
func (s *LocalStore) ListValidRecommendations(ctx context.Context, now time.Time) ([]recommend.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recColumns+` FROM recommendations
		WHERE is_applied = 0 AND expires_at > ?
		ORDER BY generated_at`,
		formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []recommend.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// PruneExpiredRecommendations deletes unapplied recommendations past expiry.
func (s *LocalStore) PruneExpiredRecommendations(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM recommendations WHERE is_applied = 0 AND expires_at <= ?`,
		formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to prune recommendations: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		logging.StoreDebug("Pruned %d expired recommendations", n)
	}
	return int(n), nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var status, priority, createdAt, updatedAt string
	var dueDate, completedAt, snoozedUntil sql.NullString

	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority,
		&createdAt, &updatedAt, &dueDate, &completedAt, &snoozedUntil, &t.EscalationCount)
	if err != nil {
		return task.Task{}, err
	}

	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return task.Task{}, fmt.Errorf("bad created_at for task %s: %w", t.ID, err)
	}
	if t.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return task.Task{}, fmt.Errorf("bad updated_at for task %s: %w", t.ID, err)
	}
	if t.DueDate, err = parseNullableTime(dueDate); err != nil {
		return task.Task{}, fmt.Errorf("bad due_date for task %s: %w", t.ID, err)
	}
	if t.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return task.Task{}, fmt.Errorf("bad completed_at for task %s: %w", t.ID, err)
	}
	if t.SnoozedUntil, err = parseNullableTime(snoozedUntil); err != nil {
		return task.Task{}, fmt.Errorf("bad snoozed_until for task %s: %w", t.ID, err)
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]task.Task, error) {
	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanRecommendation(row scanner) (recommend.Recommendation, error) {
	var rec recommend.Recommendation
	var action, generatedAt, expiresAt string
	var reasoning, priority, appliedAt sql.NullString
	var snoozeNs sql.NullInt64
	var isApplied int

	err := row.Scan(&rec.ID, &rec.TaskID, &action, &reasoning, &rec.Confidence,
		&priority, &snoozeNs, &generatedAt, &expiresAt, &isApplied, &appliedAt)
	if err != nil {
		return recommend.Recommendation{}, err
	}

	rec.Action = recommend.Action(action)
	rec.Reasoning = reasoning.String
	rec.IsApplied = isApplied != 0
	if priority.Valid {
		p := task.Priority(priority.String)
		rec.SuggestedPriority = &p
	}
	if snoozeNs.Valid {
		d := time.Duration(snoozeNs.Int64)
		rec.SuggestedSnooze = &d
	}
	if rec.GeneratedAt, err = time.Parse(timeLayout, generatedAt); err != nil {
		return recommend.Recommendation{}, fmt.Errorf("bad generated_at: %w", err)
	}
	if rec.ExpiresAt, err = time.Parse(timeLayout, expiresAt); err != nil {
		return recommend.Recommendation{}, fmt.Errorf("bad expires_at: %w", err)
	}
	if rec.AppliedAt, err = parseNullableTime(appliedAt); err != nil {
		return recommend.Recommendation{}, fmt.Errorf("bad applied_at: %w", err)
	}
	return rec, nil
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
