package adapt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAndSnapshot(t *testing.T) {
	h := NewHistory()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		h.Append(Experience{Timestamp: base.Add(time.Duration(i) * time.Second)})
	}
	assert.Equal(t, 3, h.Len())

	snap := h.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, base, snap[0].Timestamp, "oldest first")

	// Snapshot is a copy: mutating it does not touch the window.
	snap[0].TaskCount = 99
	assert.Zero(t, h.Snapshot()[0].TaskCount)
}

func TestHistoryEvictsFIFO(t *testing.T) {
	h := NewHistoryWithCapacity(5)
	for i := 0; i < 8; i++ {
		h.Append(Experience{TaskCount: i})
	}

	assert.Equal(t, 5, h.Len())
	snap := h.Snapshot()
	assert.Equal(t, 3, snap[0].TaskCount, "oldest surviving entry")
	assert.Equal(t, 7, snap[4].TaskCount)
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory()
	for i := 0; i < HistoryCapacity+10; i++ {
		h.Append(Experience{TaskCount: i})
	}
	assert.Equal(t, HistoryCapacity, h.Len())
	assert.Equal(t, 10, h.Snapshot()[0].TaskCount)
}

func TestHistoryCapacityFloor(t *testing.T) {
	h := NewHistoryWithCapacity(0)
	for i := 0; i < 3; i++ {
		h.Append(Experience{})
	}
	assert.Equal(t, 3, h.Len(), "non-positive capacity falls back to the default")
}
