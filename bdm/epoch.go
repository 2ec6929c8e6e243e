package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// EpochExecuted reports whether epochHash's commitment exists in memory
// right now — a memory-only check, distinct from
// GetEpochExecutionCommitmentWithDB's durable-store fallthrough, mirroring
// epoch_executed in the Rust source.
func (m *BlockDataManager) EpochExecuted(epochHash common.Hash) bool {
	_, ok := m.epochCommitments.Peek(epochHash)
	return ok
}

// GetEpochExecutionCommitmentWithDB returns the commitment recorded for
// epochHash, falling through to the durable store on a cache miss, or
// (nil, nil) if the epoch hasn't been executed yet. Mirrors
// get_epoch_execution_commitment_with_db in the Rust source.
func (m *BlockDataManager) GetEpochExecutionCommitmentWithDB(epochHash common.Hash) (*types.EpochExecutionCommitment, error) {
	commitment, found, err := m.epochCommitments.Get("epochcommit:"+epochHash.Hex(), epochHash, func() (*types.EpochExecutionCommitment, bool, error) {
		c, err := rawdb.ReadEpochExecutionCommitment(m.db, epochHash)
		return c, c != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return commitment, nil
}

// InsertEpochExecutionCommitment persists commitment for epochHash and
// warms the cache.
func (m *BlockDataManager) InsertEpochExecutionCommitment(epochHash common.Hash, commitment *types.EpochExecutionCommitment) error {
	if err := rawdb.WriteEpochExecutionCommitment(m.db, epochHash, commitment); err != nil {
		return err
	}
	m.epochCommitments.Insert(epochHash, commitment)
	return nil
}

// GetEpochExecutionContext returns the execution context recorded for
// epochHash, or (nil, nil) if absent.
func (m *BlockDataManager) GetEpochExecutionContext(epochHash common.Hash) (*types.EpochExecutionContext, error) {
	ctx, found, err := m.epochContexts.Get("epochctx:"+epochHash.Hex(), epochHash, func() (*types.EpochExecutionContext, bool, error) {
		c, err := rawdb.ReadEpochExecutionContext(m.db, epochHash)
		return c, c != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return ctx, nil
}

// InsertEpochExecutionContext persists ctx for epochHash and warms the
// cache.
func (m *BlockDataManager) InsertEpochExecutionContext(epochHash common.Hash, ctx *types.EpochExecutionContext) error {
	if err := rawdb.WriteEpochExecutionContext(m.db, epochHash, ctx); err != nil {
		return err
	}
	m.epochContexts.Insert(epochHash, ctx)
	return nil
}

// BlockEpochNumber derives hash's epoch number from its persisted
// execution-result pivot assumption, consulting the external storage
// collaborator for the epoch the pivot's state root corresponds to.
// True genesis is special-cased to epoch 0, recovered from
// block_epoch_number in the Rust source.
func (m *BlockDataManager) BlockEpochNumber(hash common.Hash) (uint64, bool, error) {
	if hash == m.CurEraGenesisHash() {
		header, err := m.GetHeader(hash)
		if err != nil || header == nil {
			return 0, false, err
		}
		if header.ParentHash == (common.Hash{}) {
			return 0, true, nil
		}
	}

	result, err := rawdb.ReadBlockExecutionResult(m.db, hash)
	if err != nil || result == nil {
		return 0, false, err
	}
	if m.storage == nil {
		return 0, false, nil
	}
	commitment, err := m.GetEpochExecutionCommitmentWithDB(result.PivotHash)
	if err != nil || commitment == nil {
		return 0, false, err
	}
	epochNumber, found, err := m.storage.GetStateNoCommit(commitment.StateRootWithAuxInfo.StateRoot)
	if err != nil || !found {
		return 0, false, err
	}
	return epochNumber, true, nil
}

// GetParentEpochsFor walks hash's header-parent chain back count epochs or
// until the current era genesis, returning the reversed slice (oldest
// first), recovered from get_parent_epochs_for in the Rust source.
func (m *BlockDataManager) GetParentEpochsFor(hash common.Hash, count int) ([]common.Hash, error) {
	eraGenesis := m.CurEraGenesisHash()
	var reversed []common.Hash
	cur := hash
	for i := 0; i < count; i++ {
		reversed = append(reversed, cur)
		if cur == eraGenesis {
			break
		}
		header, err := m.GetHeader(cur)
		if err != nil {
			return nil, err
		}
		if header == nil {
			break
		}
		cur = header.ParentHash
	}
	out := make([]common.Hash, len(reversed))
	for i, h := range reversed {
		out[len(reversed)-1-i] = h
	}
	return out, nil
}

// EpochExecutedAndRecovered confirms every block in an epoch has receipts
// consistent with the assumed pivot and, when onLocalPivot, backfills
// transaction indices for successful/nonce-bumped outcomes. Recovered from
// epoch_executed_and_recovered in the Rust source; load-bearing for crash
// recovery even though spec.md's operation list omits it.
func (m *BlockDataManager) EpochExecutedAndRecovered(epochHash common.Hash, blockHashes []common.Hash, onLocalPivot bool) (bool, error) {
	allExecuted := true
	for _, blockHash := range blockHashes {
		receipts, isCurrentPivot, found, err := m.GetReceiptsAtEpoch(blockHash, epochHash)
		if err != nil {
			return false, err
		}
		if !found || !isCurrentPivot {
			allExecuted = false
			continue
		}
		if !onLocalPivot {
			continue
		}
		block, err := m.GetBlock(blockHash)
		if err != nil || block == nil {
			allExecuted = false
			continue
		}
		if err := m.backfillTxIndices(blockHash, block, receipts); err != nil {
			return false, err
		}
	}
	return allExecuted, nil
}

func (m *BlockDataManager) backfillTxIndices(blockHash common.Hash, block *types.Block, receipts *types.BlockReceipts) error {
	for i, tx := range block.Transactions {
		if i >= len(receipts.Receipts) {
			break
		}
		outcome := receipts.Receipts[i].OutcomeStatus
		if outcome != types.OutcomeSuccess && outcome != types.OutcomeExceptionWithNonceBumping {
			continue
		}
		idx := &types.TransactionIndex{BlockHash: blockHash, Index: uint32(i)}
		if err := m.InsertTransactionIndex(tx.Hash(), idx); err != nil {
			return err
		}
	}
	return nil
}
