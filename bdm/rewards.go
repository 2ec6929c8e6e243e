package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// GetBlockRewardResult returns the reward breakdown for hash, or
// (nil, nil) if not yet computed.
func (m *BlockDataManager) GetBlockRewardResult(hash common.Hash) (*types.BlockRewardResult, error) {
	result, found, err := m.rewards.Get("reward:"+hash.Hex(), hash, func() (*types.BlockRewardResult, bool, error) {
		r, err := rawdb.ReadBlockRewardResult(m.db, hash)
		return r, r != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return result, nil
}

// InsertBlockRewardResult persists result for hash and warms the cache.
func (m *BlockDataManager) InsertBlockRewardResult(hash common.Hash, result *types.BlockRewardResult) error {
	if err := rawdb.WriteBlockRewardResult(m.db, hash, result); err != nil {
		return err
	}
	m.rewards.Insert(hash, result)
	return nil
}

// RemoveBlockRewardResultFromMemory evicts hash's reward record from the
// in-memory cache only.
func (m *BlockDataManager) RemoveBlockRewardResultFromMemory(hash common.Hash) {
	m.rewards.Remove(hash)
}

// RemoveBlockRewardResult deletes hash's reward record from the durable
// store and memory, the reward-family half of epoch GC (spec.md §6).
func (m *BlockDataManager) RemoveBlockRewardResult(hash common.Hash) error {
	m.rewards.Remove(hash)
	return rawdb.DeleteBlockRewardResult(m.db, hash)
}
