// Package availability tracks the inclusive height range over which full
// state is currently accessible, per spec.md §4.H. A single struct behind
// an RWMutex, the smallest of the BDM's shared-state components.
package availability

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Boundary is the [Lower, Upper] inclusive height range over which state
// is currently available, e.g. not yet pruned and already executed,
// together with the hash of the block anchoring the current range (the
// block that justified it, per spec.md §3's StateAvailabilityBoundary
// data model).
type Boundary struct {
	mu         sync.RWMutex
	lower      uint64
	upper      uint64
	anchorHash common.Hash
	set        bool
}

// New constructs an empty (unset) Boundary.
func New() *Boundary {
	return &Boundary{}
}

// Contains reports whether height falls within the current boundary. A
// never-initialized boundary contains nothing.
func (b *Boundary) Contains(height uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.set && height >= b.lower && height <= b.upper
}

// ExtendUpper raises the upper bound to height if it's not already higher,
// called as newly executed epochs extend the available range forward.
func (b *Boundary) ExtendUpper(height uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		b.lower, b.upper, b.set = height, height, true
		return
	}
	if height > b.upper {
		b.upper = height
	}
}

// AdvanceLower raises the lower bound to height if it's not already
// higher, called as a checkpoint/GC pass prunes the oldest available
// state.
func (b *Boundary) AdvanceLower(height uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		b.lower, b.upper, b.set = height, height, true
		return
	}
	if height > b.lower {
		b.lower = height
	}
	if b.lower > b.upper {
		b.upper = b.lower
	}
}

// Reset reinitializes the boundary to a single-height range anchored at
// anchorHash, used on an era-genesis switch (or a new checkpoint) where
// the old range and its justifying block no longer apply.
func (b *Boundary) Reset(anchorHash common.Hash, height uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lower, b.upper, b.set = height, height, true
	b.anchorHash = anchorHash
}

// Range returns the current (lower, upper, anchorHash, set) quadruple.
func (b *Boundary) Range() (lower, upper uint64, anchorHash common.Hash, set bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lower, b.upper, b.anchorHash, b.set
}

// AnchorHash returns the hash of the block that justifies the current
// boundary.
func (b *Boundary) AnchorHash() common.Hash {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.anchorHash
}
