package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/cachemgr"
	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

func blockCacheID(hash common.Hash) cachemgr.CacheID {
	return cachemgr.CacheID{Family: store.FamilyBody, Key: hash}
}

// GetBlock returns the full block (header + transactions) for hash. It
// does not recover transaction senders: a block loaded from the store
// carries none until it is passed to TxManager().RecoverBlock.
func (m *BlockDataManager) GetBlock(hash common.Hash) (*types.Block, error) {
	block, found, err := m.blocks.Get("block:"+hash.Hex(), hash, func() (*types.Block, bool, error) {
		b, err := rawdb.ReadBlock(m.db, hash)
		return b, b != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	m.cache.NoteUsed(blockCacheID(hash), blockByteSize(block))
	return block, nil
}

// InsertBlock persists block and warms the in-memory caches for both its
// header and body.
func (m *BlockDataManager) InsertBlock(block *types.Block) error {
	if err := rawdb.WriteBlock(m.db, block); err != nil {
		return err
	}
	hash := block.Hash()
	m.headers.Insert(hash, block.Header)
	m.blocks.Insert(hash, block)
	m.cache.NoteUsed(headerCacheID(hash), headerByteSize(block.Header))
	m.cache.NoteUsed(blockCacheID(hash), blockByteSize(block))
	return nil
}

// RemoveBlockBodyFromMemory evicts hash's body from the in-memory cache
// only.
func (m *BlockDataManager) RemoveBlockBodyFromMemory(hash common.Hash) {
	m.blocks.Remove(hash)
}

// RemoveBlockBody deletes hash's body from the durable store, leaving its
// header intact — the GC operation spec.md §6 calls out as the
// body-pruning half of epoch GC.
func (m *BlockDataManager) RemoveBlockBody(hash common.Hash) error {
	m.blocks.Remove(hash)
	return rawdb.DeleteBody(m.db, hash)
}

func blockByteSize(b *types.Block) uint64 {
	size := headerByteSize(b.Header)
	for _, tx := range b.Transactions {
		size += 150 + uint64(len(tx.Data))
	}
	return size
}
