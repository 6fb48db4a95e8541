package task

// Status represents a task's lifecycle state. States are identified by stable
// strings so they survive persistence and config round-trips unchanged.
type Status string

const (
	StatusPending   Status = "pending"   // Created, awaiting attention
	StatusActive    Status = "active"    // Being worked
	StatusSnoozed   Status = "snoozed"   // Deferred until snoozed_until
	StatusEscalated Status = "escalated" // Forced to critical attention
	StatusCompleted Status = "completed" // Terminal success
	StatusRejected  Status = "rejected"  // Terminal discard
)

// IsTerminal returns true for completed and rejected tasks. Terminal tasks
// accept no further transitions or field mutations.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// IsValid returns true if the status is a recognized lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSnoozed, StatusEscalated, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every lifecycle state.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusActive,
		StatusSnoozed,
		StatusEscalated,
		StatusCompleted,
		StatusRejected,
	}
}

// Priority represents how important a task is, independent of timing.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid returns true if the priority is a recognized level.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Weight returns the scoring weight for this priority in [0.25, 1.0].
func (p Priority) Weight() float64 {
	switch p {
	case PriorityCritical:
		return 1.00
	case PriorityHigh:
		return 0.75
	case PriorityMedium:
		return 0.50
	case PriorityLow:
		return 0.25
	default:
		return 0.25
	}
}

// Rank returns an ordinal for priority comparisons (higher is more urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// transitions is the lifecycle table. A transition is legal only if the
// target status appears in the set for the current status. Terminal states
// have no entries.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusActive:    true,
		StatusSnoozed:   true,
		StatusEscalated: true,
		StatusCompleted: true,
		StatusRejected:  true,
	},
	StatusActive: {
		StatusPending:   true,
		StatusSnoozed:   true,
		StatusEscalated: true,
		StatusCompleted: true,
		StatusRejected:  true,
	},
	StatusSnoozed: {
		StatusPending:   true,
		StatusActive:    true,
		StatusEscalated: true,
		StatusCompleted: true,
		StatusRejected:  true,
	},
	StatusEscalated: {
		StatusPending:   true,
		StatusActive:    true,
		StatusCompleted: true,
		StatusRejected:  true,
	},
	StatusCompleted: {},
	StatusRejected:  {},
}

// CanTransition reports whether the lifecycle table allows from -> to.
func CanTransition(from, to Status) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
