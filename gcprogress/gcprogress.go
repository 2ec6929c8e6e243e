// Package gcprogress tracks how far the database GC pass has progressed
// through the epoch range eligible for collection, per spec.md §4.F. The
// Rust source leaves get_gc_range's throttling body in db_gc_manager.rs,
// which was not retrieved; the linear throttle here is this module's
// resolution of that Open Question (see DESIGN.md): the GC range is
// consumed in slices proportional to how far consensus has advanced since
// the tracker last ran, keyed to checkpoint_gc_time_in_epoch_count.
package gcprogress

import "sync"

// Config bounds the GC throttle, mirrored from spec.md §6's
// checkpoint_gc_time_in_epoch_count tunable: the number of epochs GC is
// expected to take to fully catch up to the checkpoint boundary.
type Config struct {
	// CheckpointGCTimeInEpochCount is the number of best-epoch advances
	// over which a full GC range is expected to be consumed.
	CheckpointGCTimeInEpochCount uint64
}

// Tracker records GC progress across checkpoint transitions.
type Tracker struct {
	cfg Config

	mu                      sync.Mutex
	nextToProcess           uint64
	gcEnd                   uint64
	lastConsensusBestEpoch  uint64
	expectedEndBestEpoch    uint64
	active                  bool
}

// NewTracker constructs an idle Tracker.
func NewTracker(cfg Config) *Tracker {
	if cfg.CheckpointGCTimeInEpochCount == 0 {
		cfg.CheckpointGCTimeInEpochCount = 1
	}
	return &Tracker{cfg: cfg}
}

// BeginRange arms the tracker with a new [start, end) epoch range to GC,
// anchored at the consensus best-epoch observed when the range was
// opened (typically a checkpoint transition).
func (t *Tracker) BeginRange(start, end, consensusBestEpoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextToProcess = start
	t.gcEnd = end
	t.lastConsensusBestEpoch = consensusBestEpoch
	t.expectedEndBestEpoch = consensusBestEpoch + t.cfg.CheckpointGCTimeInEpochCount
	t.active = t.nextToProcess < t.gcEnd
}

// GetGCRange returns the slice of the open range that should be processed
// given bestEpoch has now been reached, proportional to how far consensus
// has advanced toward expectedEndBestEpoch. ok is false if there is
// nothing left to process.
func (t *Tracker) GetGCRange(bestEpoch uint64) (start, end uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || t.nextToProcess >= t.gcEnd {
		return 0, 0, false
	}

	total := t.gcEnd - t.nextToProcess
	span := t.expectedEndBestEpoch - t.lastConsensusBestEpoch
	var allowed uint64
	if span == 0 || bestEpoch >= t.expectedEndBestEpoch {
		allowed = total
	} else if bestEpoch <= t.lastConsensusBestEpoch {
		allowed = 0
	} else {
		progressed := bestEpoch - t.lastConsensusBestEpoch
		allowed = total * progressed / span
	}
	if allowed > 0 {
		t.lastConsensusBestEpoch = bestEpoch
	}
	if allowed == 0 {
		return 0, 0, false
	}

	start = t.nextToProcess
	end = start + allowed
	if end > t.gcEnd {
		end = t.gcEnd
	}
	return start, end, true
}

// Advance records that [start, end) has been processed, moving the cursor
// forward.
func (t *Tracker) Advance(end uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if end > t.nextToProcess {
		t.nextToProcess = end
	}
	if t.nextToProcess >= t.gcEnd {
		t.active = false
	}
}

// Done reports whether the current range has been fully processed.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.active
}
