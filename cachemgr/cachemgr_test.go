package cachemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conflux-chain/bdm/store"
)

func idFor(family store.Family, tag byte) CacheID {
	var key [32]byte
	key[0] = tag
	return CacheID{Family: family, Key: key}
}

func TestTrackerEvictsLeastRecentlyUsed(t *testing.T) {
	tr := NewTracker(TrackerConfig{PreferredSize: 10, MaxSize: 20}, nil)

	a, b, c := idFor(store.FamilyHeader, 1), idFor(store.FamilyHeader, 2), idFor(store.FamilyBody, 3)
	tr.NoteUsed(a, 4)
	tr.NoteUsed(b, 4)
	tr.NoteUsed(c, 4)
	require.Equal(t, uint64(12), tr.Size())

	// touch a again so b becomes the least recently used entry.
	tr.NoteUsed(a, 4)

	var evicted []CacheID
	tr.CollectGarbage(0, func(id CacheID) { evicted = append(evicted, id) })

	require.Equal(t, []CacheID{b}, evicted)
	require.LessOrEqual(t, tr.Size(), uint64(10))
}

func TestTrackerNoteUsedUpdatesSize(t *testing.T) {
	tr := NewTracker(TrackerConfig{PreferredSize: 100, MaxSize: 200}, nil)
	id := idFor(store.FamilyReceipts, 1)

	tr.NoteUsed(id, 10)
	require.Equal(t, uint64(10), tr.Size())

	tr.NoteUsed(id, 30)
	require.Equal(t, uint64(30), tr.Size())
	require.Equal(t, 1, tr.Count())
}

func TestTrackerForget(t *testing.T) {
	tr := NewTracker(TrackerConfig{PreferredSize: 100, MaxSize: 200}, nil)
	id := idFor(store.FamilyReceipts, 1)
	tr.NoteUsed(id, 10)
	tr.Forget(id)
	require.Equal(t, uint64(0), tr.Size())
	require.Equal(t, 0, tr.Count())
}

func TestTrackerOverMax(t *testing.T) {
	tr := NewTracker(TrackerConfig{PreferredSize: 10, MaxSize: 15}, nil)
	tr.NoteUsed(idFor(store.FamilyHeader, 1), 20)
	require.True(t, tr.OverMax())
}
