package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/types"
)

// GetCompactBlock returns the in-memory-only compact block for hash, or
// nil if none is cached. Compact blocks are never persisted to durable
// storage (spec.md §4.B/§6: they exist to save bandwidth during sync and
// are discarded once reconstruction completes).
func (m *BlockDataManager) GetCompactBlock(hash common.Hash) *types.CompactBlock {
	cb, _ := m.compactBlocks.Peek(hash)
	return cb
}

// InsertCompactBlock caches cb in memory under its header hash.
func (m *BlockDataManager) InsertCompactBlock(cb *types.CompactBlock) {
	m.compactBlocks.Insert(cb.Hash(), cb)
}

// RemoveCompactBlock evicts hash's compact block from memory, called once
// reconstruction completes and the full block has been inserted.
func (m *BlockDataManager) RemoveCompactBlock(hash common.Hash) {
	m.compactBlocks.Remove(hash)
}

// FindMissingTxIndicesEncoded delegates to the transaction data manager
// for the compact block cached under hash, returning nil if hash isn't
// cached.
func (m *BlockDataManager) FindMissingTxIndicesEncoded(hash common.Hash) []int {
	cb := m.GetCompactBlock(hash)
	if cb == nil {
		return nil
	}
	return m.tx.FindMissingTxIndicesEncoded(cb)
}
