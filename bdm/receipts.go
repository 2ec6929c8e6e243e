package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// GetBlockReceiptsInfo returns the pivot-indexed receipts record for hash,
// or (nil, nil) if none has ever been recorded. In memory this tracks
// every pivot assumption computed this process's lifetime; on a cold load
// (nothing cached) only the single most-recently-persisted assumption is
// recoverable, since the durable store overwrites rather than
// accumulates (spec.md §6).
func (m *BlockDataManager) GetBlockReceiptsInfo(hash common.Hash) (*types.BlockReceiptsInfo, error) {
	info, found, err := m.receipts.Get("receipts:"+hash.Hex(), hash, func() (*types.BlockReceiptsInfo, bool, error) {
		result, err := rawdb.ReadBlockExecutionResult(m.db, hash)
		if err != nil || result == nil {
			return nil, false, err
		}
		info := types.NewBlockReceiptsInfo()
		info.InsertReceiptsAtEpoch(result.PivotHash, result.Receipts)
		info.SetPivotHash(result.PivotHash)
		return info, true, nil
	})
	if err != nil || !found {
		return nil, err
	}
	return info, nil
}

// GetReceiptsAtEpoch returns the receipts recorded for hash under
// assumedPivot, along with whether that entry is currently marked as the
// pivot assumption. found is false if no record exists at all, or no
// entry matches assumedPivot.
func (m *BlockDataManager) GetReceiptsAtEpoch(hash, assumedPivot common.Hash) (receipts *types.BlockReceipts, isCurrentPivot bool, found bool, err error) {
	info, err := m.GetBlockReceiptsInfo(hash)
	if err != nil || info == nil {
		return nil, false, false, err
	}
	receipts, isCurrentPivot, found = info.GetReceiptsAtEpoch(assumedPivot)
	return receipts, isCurrentPivot, found, nil
}

// InsertBlockExecutionResult records result's receipts for hash under its
// pivot hash in the in-memory history, creating the receipts-info record
// if this is the first result ever computed for hash. It does not mark
// the pivot current in memory — callers do that explicitly via
// SetBlockReceiptsPivot once the pivot chain has settled — but it does
// durably persist this freshly computed tuple, overwriting whatever
// assumption was on disk before, since it's the newest information known
// about hash until a reassignment supersedes it.
func (m *BlockDataManager) InsertBlockExecutionResult(hash common.Hash, result *types.BlockExecutionResult) error {
	info, err := m.GetBlockReceiptsInfo(hash)
	if err != nil {
		return err
	}
	if info == nil {
		info = types.NewBlockReceiptsInfo()
	}
	info.InsertReceiptsAtEpoch(result.PivotHash, result.Receipts)
	if err := rawdb.WriteBlockExecutionResult(m.db, hash, result); err != nil {
		return err
	}
	m.receipts.Insert(hash, info)
	return nil
}

// SetBlockReceiptsPivot marks pivotHash as the current pivot assumption
// for hash's receipts in memory, and persists the (pivotHash, receipts)
// tuple to the durable store, overwriting any previous assumption — the
// pivot-reassignment write spec.md §4.G step 2 requires. If no receipts
// were ever recorded for pivotHash, there is nothing to persist yet.
func (m *BlockDataManager) SetBlockReceiptsPivot(hash, pivotHash common.Hash) error {
	info, err := m.GetBlockReceiptsInfo(hash)
	if err != nil {
		return err
	}
	if info == nil {
		info = types.NewBlockReceiptsInfo()
	}
	info.SetPivotHash(pivotHash)
	m.receipts.Insert(hash, info)

	receipts, _, found := info.GetReceiptsAtEpoch(pivotHash)
	if !found {
		return nil
	}
	return rawdb.WriteBlockExecutionResult(m.db, hash, &types.BlockExecutionResult{PivotHash: pivotHash, Receipts: receipts})
}

// RemoveBlockReceiptsInfoFromMemory evicts hash's receipts record from the
// in-memory cache only.
func (m *BlockDataManager) RemoveBlockReceiptsInfoFromMemory(hash common.Hash) {
	m.receipts.Remove(hash)
}

// RemoveBlockExecutionResult deletes hash's persisted receipts tuple from
// the durable store and memory, the execution-result-family half of
// epoch GC (spec.md §6).
func (m *BlockDataManager) RemoveBlockExecutionResult(hash common.Hash) error {
	m.receipts.Remove(hash)
	return rawdb.DeleteBlockExecutionResult(m.db, hash)
}
