package gcprogress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetGCRangeThrottlesLinearly(t *testing.T) {
	tr := NewTracker(Config{CheckpointGCTimeInEpochCount: 100})
	tr.BeginRange(0, 1000, 0)

	start, end, ok := tr.GetGCRange(50)
	require.True(t, ok)
	require.Equal(t, uint64(0), start)
	require.Equal(t, uint64(500), end)
}

func TestGetGCRangeCompletesAtExpectedEnd(t *testing.T) {
	tr := NewTracker(Config{CheckpointGCTimeInEpochCount: 100})
	tr.BeginRange(0, 1000, 0)

	start, end, ok := tr.GetGCRange(200)
	require.True(t, ok)
	require.Equal(t, uint64(0), start)
	require.Equal(t, uint64(1000), end)
}

func TestGetGCRangeFalseWhenNothingDue(t *testing.T) {
	tr := NewTracker(Config{CheckpointGCTimeInEpochCount: 100})
	tr.BeginRange(0, 1000, 50)

	_, _, ok := tr.GetGCRange(50)
	require.False(t, ok)
}

func TestAdvanceMarksDone(t *testing.T) {
	tr := NewTracker(Config{CheckpointGCTimeInEpochCount: 10})
	tr.BeginRange(0, 100, 0)
	tr.Advance(100)
	require.True(t, tr.Done())
}

func TestGetGCRangeFalseWhenNoRangeOpen(t *testing.T) {
	tr := NewTracker(Config{})
	_, _, ok := tr.GetGCRange(10)
	require.False(t, ok)
}
