package bdm

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/conflux-chain/bdm/cachemgr"
	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/store"
)

// RunCacheGC evicts least-recently-used entries across every family's
// shared byte budget until usage (plus extra headroom for an incoming
// insert) fits within CachePreferredSize. Each eviction only locks the one
// family map it targets, one at a time — sidestepping the fixed
// multi-mutex lock order the Rust source's single atomic cache_gc pass
// needs, since no Go eviction here ever holds more than one family lock at
// once (see DESIGN.md for this Open Question's resolution).
func (m *BlockDataManager) RunCacheGC(extra uint64) {
	start := time.Now()
	m.cache.CollectGarbage(extra, m.evictCacheID)
	if m.metrics.gcTimer != nil {
		m.metrics.gcTimer.UpdateSince(start)
	}
}

func (m *BlockDataManager) evictCacheID(id cachemgr.CacheID) {
	hash := common.Hash(id.Key)
	switch id.Family {
	case store.FamilyHeader:
		m.RemoveHeaderFromMemory(hash)
	case store.FamilyBody:
		m.RemoveBlockBodyFromMemory(hash)
	case store.FamilyReceipts:
		m.RemoveBlockReceiptsInfoFromMemory(hash)
	case store.FamilyReward:
		m.RemoveBlockRewardResultFromMemory(hash)
	case store.FamilyLocalBlockInfo:
		m.RemoveLocalBlockInfoFromMemory(hash)
	default:
		log.Warn("cache_gc: unrecognized family, skipping eviction", "family", id.Family, "key", hash)
	}
}

// BeginGCRange arms the database GC progress tracker with a new
// [start, end) epoch-height range to collect, anchored at the consensus
// best-epoch observed when the range was opened — typically called on a
// checkpoint transition alongside SetCurEraGenesisHash.
func (m *BlockDataManager) BeginGCRange(start, end, consensusBestEpoch uint64) {
	m.gc.BeginRange(start, end, consensusBestEpoch)
}

// NewCheckpoint composes the checkpoint transition spec.md §6's exposed
// interface names: it arms a new database GC range ending at gcEnd
// (anchored at consensusBestEpoch), advances the state availability
// boundary's lower bound to gcEnd since everything the GC range will
// eventually collect is no longer guaranteed available, and persists
// gcEnd. New does not read the persisted gcEnd back: a restarted manager
// starts with no GC range armed until BeginGCRange or NewCheckpoint runs.
func (m *BlockDataManager) NewCheckpoint(gcEnd, consensusBestEpoch uint64) error {
	lower, _, _, _ := m.avail.Range()
	m.gc.BeginRange(lower, gcEnd, consensusBestEpoch)
	m.avail.AdvanceLower(gcEnd)
	return rawdb.WriteGCEnd(m.db, gcEnd)
}

// EarliestEpochWithBody reports the oldest epoch height a block body is
// still guaranteed to be retained for, per spec.md §6's
// earliest_epoch_with_* accessors. ok is false if the availability
// boundary has never been established.
func (m *BlockDataManager) EarliestEpochWithBody() (epoch uint64, ok bool) {
	return m.earliestEpochWith(m.cfg.AdditionalMaintainedBodyEpochCount)
}

// EarliestEpochWithExecutionResult mirrors EarliestEpochWithBody for the
// block-execution-result family.
func (m *BlockDataManager) EarliestEpochWithExecutionResult() (epoch uint64, ok bool) {
	return m.earliestEpochWith(m.cfg.AdditionalMaintainedExecutionResultEpochCount)
}

// EarliestEpochWithReward mirrors EarliestEpochWithBody for the reward
// family.
func (m *BlockDataManager) EarliestEpochWithReward() (epoch uint64, ok bool) {
	return m.earliestEpochWith(m.cfg.AdditionalMaintainedRewardEpochCount)
}

// EarliestEpochWithTrace mirrors EarliestEpochWithBody for the trace
// family.
func (m *BlockDataManager) EarliestEpochWithTrace() (epoch uint64, ok bool) {
	return m.earliestEpochWith(m.cfg.AdditionalMaintainedTraceEpochCount)
}

// EarliestEpochWithTransactionIndex mirrors EarliestEpochWithBody for the
// transaction-index family.
func (m *BlockDataManager) EarliestEpochWithTransactionIndex() (epoch uint64, ok bool) {
	return m.earliestEpochWith(m.cfg.AdditionalMaintainedTransactionIndexEpochCount)
}

// earliestEpochWith derives a family's earliest-retained epoch from the
// availability boundary's lower bound minus however many extra epochs
// that family is configured to keep beyond the baseline GC cutoff.
func (m *BlockDataManager) earliestEpochWith(additional uint64) (uint64, bool) {
	lower, _, _, set := m.avail.Range()
	if !set {
		return 0, false
	}
	if lower < additional {
		return 0, true
	}
	return lower - additional, true
}

// RunDatabaseGC consumes as much of the GC progress tracker's currently
// due range as bestEpoch allows. Per spec.md §6, each family's retention
// depth is independent: a family configured to retain more epochs beyond
// the cutoff survives in epochs where a shorter-retention family has
// already been collected.
func (m *BlockDataManager) RunDatabaseGC(bestEpoch uint64) error {
	start, end, ok := m.gc.GetGCRange(bestEpoch)
	if !ok {
		return nil
	}
	for epoch := start; epoch < end; epoch++ {
		if err := m.gcEpoch(epoch, bestEpoch); err != nil {
			return err
		}
	}
	m.gc.Advance(end)
	return nil
}

// retained reports whether epochHeight still falls within additional
// epochs of bestEpoch, i.e. whether a family configured with this
// retention depth must keep epochHeight's record.
func retained(bestEpoch, epochHeight, additional uint64) bool {
	if epochHeight > bestEpoch {
		return true
	}
	return bestEpoch-epochHeight <= additional
}

func (m *BlockDataManager) gcEpoch(epochHeight, bestEpoch uint64) error {
	epochHash, err := m.epochHashAtHeight(epochHeight)
	if err != nil || epochHash == (common.Hash{}) {
		return err
	}

	executed, err := m.GetExecutedEpochSet(epochHash)
	if err != nil {
		return err
	}
	skipped, err := m.GetSkippedEpochSet(epochHash)
	if err != nil {
		return err
	}
	blocks := append(append([]common.Hash(nil), executed...), skipped...)

	retainTxIndex := retained(bestEpoch, epochHeight, m.cfg.AdditionalMaintainedTransactionIndexEpochCount)
	retainBody := retained(bestEpoch, epochHeight, m.cfg.AdditionalMaintainedBodyEpochCount)
	retainExecutionResult := retained(bestEpoch, epochHeight, m.cfg.AdditionalMaintainedExecutionResultEpochCount)
	retainReward := retained(bestEpoch, epochHeight, m.cfg.AdditionalMaintainedRewardEpochCount)
	retainTrace := retained(bestEpoch, epochHeight, m.cfg.AdditionalMaintainedTraceEpochCount)

	// Pass 1: de-index every transaction in the epoch, strictly before any
	// body in the same epoch is pruned.
	if !retainTxIndex {
		for _, blockHash := range blocks {
			block, err := m.GetBlock(blockHash)
			if err != nil {
				return err
			}
			if block == nil {
				continue
			}
			for _, tx := range block.Transactions {
				if err := m.RemoveTransactionIndex(tx.Hash()); err != nil {
					return err
				}
			}
		}
	}

	// Pass 2: only now prune bodies, and only once their indices are
	// actually gone — a body with a smaller retention depth than its
	// transaction index would otherwise still get collected ahead of its
	// index, violating the ordering invariant spec.md §4.F requires (a
	// body GC'd before its transactions are de-indexed would leave
	// dangling index entries pointing at a now-missing block).
	if !retainBody && !retainTxIndex {
		for _, blockHash := range blocks {
			if err := m.RemoveBlockBody(blockHash); err != nil {
				return err
			}
		}
	}

	if !retainExecutionResult {
		for _, blockHash := range blocks {
			if err := m.RemoveBlockExecutionResult(blockHash); err != nil {
				return err
			}
		}
	}

	if !retainReward {
		for _, blockHash := range blocks {
			if err := m.RemoveBlockRewardResult(blockHash); err != nil {
				return err
			}
		}
	}

	if !retainTrace {
		for _, blockHash := range blocks {
			if err := m.RemoveBlockExecTraces(blockHash); err != nil {
				return err
			}
		}
	}

	return nil
}

// epochHashAtHeight resolves the pivot block hash at epochHeight through
// the consensus layer's PivotChain collaborator — the BDM never
// maintains pivot-chain knowledge itself (spec.md §1).
func (m *BlockDataManager) epochHashAtHeight(height uint64) (common.Hash, error) {
	if m.pivot == nil {
		return common.Hash{}, nil
	}
	hash, found := m.pivot.EpochHash(height)
	if !found {
		return common.Hash{}, nil
	}
	return hash, nil
}
