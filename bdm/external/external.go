// Package external declares the narrow interfaces the block data manager
// consumes from collaborators it does not implement itself: the state/
// storage manager and the consensus layer, per spec.md §1 ("consumed via
// interfaces"). A higher layer wires concrete implementations in; this
// module never computes a state root or decides block validity.
package external

import "github.com/ethereum/go-ethereum/common"

// Storage is the subset of the state-trie manager's surface the block
// data manager calls into for BlockEpochNumber and similar diagnostics.
type Storage interface {
	// GetStateNoCommit returns the epoch number the storage layer has
	// already executed up to for the state rooted at stateRoot, without
	// attempting to commit anything.
	GetStateNoCommit(stateRoot common.Hash) (epochNumber uint64, found bool, err error)
	// GetSnapshotEpochCount returns the number of epochs a single storage
	// snapshot spans, used to translate between snapshot and epoch
	// numbering.
	GetSnapshotEpochCount() uint64
}

// PivotChain is the subset of the consensus layer's surface the block
// data manager calls into to resolve a pivot-chain height to the epoch
// hash it settled on, needed to drive per-epoch GC. The BDM never
// computes or maintains the pivot chain itself (spec.md §1): it only
// stores the blocks/receipts a pivot choice names.
type PivotChain interface {
	EpochHash(height uint64) (hash common.Hash, found bool)
}
