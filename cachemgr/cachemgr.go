// Package cachemgr generalizes the teacher's per-struct LRU caches
// (headerCache, blockCache in core/headerchain.go / core/blockchain.go,
// each a bare common/lru.Cache) into a single cross-family byte-budget
// tracker, the shape spec.md §4.D's CacheManager<CacheId> needs: many
// heterogeneous entity families sharing one global recency queue and one
// byte budget, rather than each family capped independently.
package cachemgr

import (
	"container/list"
	"sync"

	"github.com/ethereum/go-ethereum/metrics"

	"github.com/conflux-chain/bdm/store"
)

// CacheID names one cached entity: its family and the key it's stored
// under in that family, mirroring the Rust CacheId enum's per-family
// hash-keyed variants.
type CacheID struct {
	Family store.Family
	Key    [32]byte
}

// Manager is the narrow interface other subsystems (a future state-trie
// cache, per spec.md §9) can share, rather than depending on the concrete
// byte-budget tracker.
type Manager interface {
	// NoteUsed records that id is of size bytes and was just accessed,
	// moving it to the front of the global recency queue.
	NoteUsed(id CacheID, size uint64)
	// Forget drops id's accounting without evicting anything else,
	// used when the caller itself evicts the backing entry.
	Forget(id CacheID)
	// CollectGarbage evicts least-recently-used entries, calling evict for
	// each one, until total usage plus extra fits within the preferred
	// size, or the queue is exhausted.
	CollectGarbage(extra uint64, evict func(CacheID))
	// Size reports current total tracked bytes.
	Size() uint64
	// Count reports the number of tracked entries.
	Count() int
}

type entry struct {
	id   CacheID
	size uint64
}

// TrackerConfig bounds a Tracker's byte budget, per spec.md §6's
// cache_manager tunables.
type TrackerConfig struct {
	// PreferredSize is the target collect_garbage shrinks usage down to.
	PreferredSize uint64
	// MaxSize is the ceiling OverMax compares usage against;
	// CollectGarbage does not consult it.
	MaxSize uint64
}

// Tracker is the concrete Manager: an intrusive doubly-linked recency
// queue (container/list) plus a byte-usage counter, guarded by a mutex
// since cache_gc runs from a background goroutine concurrently with
// foreground note_used calls.
type Tracker struct {
	cfg TrackerConfig

	mu       sync.Mutex
	order    *list.List // front = most recently used
	elements map[CacheID]*list.Element
	size     uint64

	sizeGauge   metrics.Gauge
	evictMeter  metrics.Meter
}

// NewTracker constructs a Tracker, registering its size gauge and eviction
// meter the way core/blockchain.go registers headBlockGauge et al.
func NewTracker(cfg TrackerConfig, registry metrics.Registry) *Tracker {
	t := &Tracker{
		cfg:      cfg,
		order:    list.New(),
		elements: make(map[CacheID]*list.Element),
	}
	if registry != nil {
		t.sizeGauge = metrics.NewRegisteredGauge("bdm/cache/size", registry)
		t.evictMeter = metrics.NewRegisteredMeter("bdm/cache/evict", registry)
	}
	return t
}

// NoteUsed implements Manager.
func (t *Tracker) NoteUsed(id CacheID, size uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.elements[id]; ok {
		old := elem.Value.(*entry)
		t.size -= old.size
		old.size = size
		t.size += size
		t.order.MoveToFront(elem)
	} else {
		elem := t.order.PushFront(&entry{id: id, size: size})
		t.elements[id] = elem
		t.size += size
	}
	if t.sizeGauge != nil {
		t.sizeGauge.Update(int64(t.size))
	}
}

// Forget implements Manager.
func (t *Tracker) Forget(id CacheID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeLocked(id)
}

func (t *Tracker) removeLocked(id CacheID) {
	elem, ok := t.elements[id]
	if !ok {
		return
	}
	t.size -= elem.Value.(*entry).size
	t.order.Remove(elem)
	delete(t.elements, id)
}

// CollectGarbage implements Manager. It mirrors cache_gc's fixed-order
// sweep in the Rust source: victims are chosen purely by global recency,
// oldest first, regardless of family.
func (t *Tracker) CollectGarbage(extra uint64, evict func(CacheID)) {
	t.mu.Lock()
	var victims []CacheID
	for t.size+extra > t.cfg.PreferredSize {
		back := t.order.Back()
		if back == nil {
			break
		}
		e := back.Value.(*entry)
		victims = append(victims, e.id)
		t.size -= e.size
		t.order.Remove(back)
		delete(t.elements, e.id)
	}
	if t.sizeGauge != nil {
		t.sizeGauge.Update(int64(t.size))
	}
	if t.evictMeter != nil && len(victims) > 0 {
		t.evictMeter.Mark(int64(len(victims)))
	}
	t.mu.Unlock()

	for _, id := range victims {
		evict(id)
	}
}

// Size implements Manager.
func (t *Tracker) Size() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Count implements Manager.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.elements)
}

// OverMax reports whether usage currently exceeds MaxSize. CollectGarbage
// and the BDM's RunCacheGC do not call it.
func (t *Tracker) OverMax() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size > t.cfg.MaxSize
}
