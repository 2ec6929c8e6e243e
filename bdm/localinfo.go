package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// GetLocalBlockInfo returns the node's local validity verdict for hash, or
// (nil, nil) if the block has never been locally processed.
func (m *BlockDataManager) GetLocalBlockInfo(hash common.Hash) (*types.LocalBlockInfo, error) {
	info, found, err := m.localInfo.Get("localinfo:"+hash.Hex(), hash, func() (*types.LocalBlockInfo, bool, error) {
		i, err := rawdb.ReadLocalBlockInfo(m.db, hash)
		return i, i != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return info, nil
}

// InsertLocalBlockInfo persists info for hash and warms the cache.
func (m *BlockDataManager) InsertLocalBlockInfo(hash common.Hash, info *types.LocalBlockInfo) error {
	if err := rawdb.WriteLocalBlockInfo(m.db, hash, info); err != nil {
		return err
	}
	m.localInfo.Insert(hash, info)
	return nil
}

// InvalidateBlock records hash as locally invalid: it stamps a
// StatusInvalid LocalBlockInfo, adds hash to the bounded invalid-block
// set, and notifies subscribers, mirroring invalidate_block in the Rust
// source.
func (m *BlockDataManager) InvalidateBlock(hash common.Hash) error {
	info := types.NewLocalBlockInfo(types.StatusInvalid, types.NullSequence, m.instanceID)
	if err := m.InsertLocalBlockInfo(hash, &info); err != nil {
		return err
	}
	m.invalid.Insert(hash)
	m.invalidBlockFeed.Send(hash)
	return nil
}

// VerifiedInvalid reports whether hash is known invalid: either it is in
// the bounded invalid-block set, or its persisted LocalBlockInfo carries
// StatusInvalid, in which case hash is re-inserted into the set (mirrors
// verified_invalid in the Rust source). A hash with no Invalid verdict is
// reported false and left out of the set.
func (m *BlockDataManager) VerifiedInvalid(hash common.Hash) bool {
	if m.invalid.Contains(hash) {
		return true
	}
	info, err := m.GetLocalBlockInfo(hash)
	if err != nil || info == nil || info.Status != types.StatusInvalid {
		return false
	}
	m.invalid.Insert(hash)
	return true
}

// RemoveLocalBlockInfoFromMemory evicts hash's local-info record from the
// in-memory cache only.
func (m *BlockDataManager) RemoveLocalBlockInfoFromMemory(hash common.Hash) {
	m.localInfo.Remove(hash)
}
