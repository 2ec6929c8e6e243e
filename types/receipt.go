package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// TransactionOutcome classifies how a transaction's execution settled.
// Recovered from the Conflux source (epoch_executed_and_recovered): only
// Success and ExceptionWithNonceBumping consume a transaction index slot,
// since a plain exception never touched chain state.
type TransactionOutcome uint8

const (
	OutcomeSuccess TransactionOutcome = iota
	OutcomeExceptionWithNonceBumping
	OutcomeException
	OutcomeSkipped
)

// Receipt is the execution record for a single transaction.
type Receipt struct {
	OutcomeStatus   TransactionOutcome
	GasUsed         uint64
	AccumulatedGas  uint64
	LogBloom        Bloom
	Logs            []Log
	ContractCreated *common.Address `rlp:"nil"`
}

// Log is a single event emitted during execution.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// BlockReceipts is the full receipt set computed for one block under one
// pivot assumption, plus the block-level bloom folded from every receipt.
type BlockReceipts struct {
	Receipts []*Receipt
	Bloom    Bloom
}

// NewBlockReceipts folds the per-receipt blooms into the block-level bloom,
// mirroring insert_block_execution_result in the Conflux source.
func NewBlockReceipts(receipts []*Receipt) *BlockReceipts {
	var bloom Bloom
	for _, r := range receipts {
		bloom.Accrue(r.LogBloom)
	}
	return &BlockReceipts{Receipts: receipts, Bloom: bloom}
}

// BlockExecutionResult pairs a receipt set with the pivot hash it was
// computed under.
type BlockExecutionResult struct {
	PivotHash common.Hash
	Receipts  *BlockReceipts
}

// BlockReceiptsInfo is the in-memory associative structure tracking every
// pivot assumption under which a block's receipts have been computed, with
// at most one marked as the current pivot. Cardinality is typically 1-2, so
// an inline slice beats a boxed map (spec.md's design notes, §9).
type BlockReceiptsInfo struct {
	entries    []blockReceiptsEntry
	pivotIndex int // index into entries of the "current" pivot, or -1
}

type blockReceiptsEntry struct {
	pivot    common.Hash
	receipts *BlockReceipts
}

// NewBlockReceiptsInfo returns an empty receipts-info record.
func NewBlockReceiptsInfo() *BlockReceiptsInfo {
	return &BlockReceiptsInfo{pivotIndex: -1}
}

// GetReceiptsAtEpoch looks up the receipts recorded for assumedPivot and
// reports whether that entry is currently marked as the pivot assumption.
func (info *BlockReceiptsInfo) GetReceiptsAtEpoch(assumedPivot common.Hash) (*BlockReceipts, bool, bool) {
	for i, e := range info.entries {
		if e.pivot == assumedPivot {
			return e.receipts, i == info.pivotIndex, true
		}
	}
	return nil, false, false
}

// InsertReceiptsAtEpoch records (or overwrites) the receipts for a pivot
// assumption without changing which entry is current.
func (info *BlockReceiptsInfo) InsertReceiptsAtEpoch(pivot common.Hash, receipts *BlockReceipts) {
	for i, e := range info.entries {
		if e.pivot == pivot {
			info.entries[i].receipts = receipts
			return
		}
	}
	info.entries = append(info.entries, blockReceiptsEntry{pivot: pivot, receipts: receipts})
}

// SetPivotHash marks pivot as the current assumption, inserting an empty
// placeholder entry if none exists yet for it.
func (info *BlockReceiptsInfo) SetPivotHash(pivot common.Hash) {
	for i, e := range info.entries {
		if e.pivot == pivot {
			info.pivotIndex = i
			return
		}
	}
	info.entries = append(info.entries, blockReceiptsEntry{pivot: pivot})
	info.pivotIndex = len(info.entries) - 1
}

// RetainEpoch drops every entry except the one for epoch, used when a pivot
// reorg has settled and stale assumptions can be discarded.
func (info *BlockReceiptsInfo) RetainEpoch(epoch common.Hash) {
	for i, e := range info.entries {
		if e.pivot == epoch {
			info.entries = []blockReceiptsEntry{e}
			info.pivotIndex = 0
			return
		}
	}
	info.entries = nil
	info.pivotIndex = -1
}

