package task

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors are rejected before any state mutation.
var (
	// ErrEmptyTitle indicates a task was created or renamed with no title.
	ErrEmptyTitle = errors.New("task title must not be empty")

	// ErrInvalidPriority indicates an unrecognized priority level.
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TransitionError reports an attempt to move a task between two states the
// lifecycle table does not connect.
type TransitionError struct {
	TaskID string
	From   Status
	To     Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition for task %s: %s -> %s", e.TaskID, e.From, e.To)
}

// TerminalError reports a mutation attempt on a completed or rejected task.
type TerminalError struct {
	TaskID string
	Status Status
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("task %s is terminal (%s) and cannot be modified", e.TaskID, e.Status)
}

// SnoozeError reports a snooze-until time that is not strictly in the future.
type SnoozeError struct {
	Until time.Time
	Now   time.Time
}

func (e *SnoozeError) Error() string {
	return fmt.Sprintf("snooze time %s must be after %s", e.Until.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

// IsStateError returns true if err is a lifecycle conflict (transition,
// terminal, or snooze-time error) rather than an infrastructure failure.
func IsStateError(err error) bool {
	if err == nil {
		return false
	}
	var te *TransitionError
	var tme *TerminalError
	var se *SnoozeError
	return errors.As(err, &te) || errors.As(err, &tme) || errors.As(err, &se)
}
