package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadBlockExecutionResult returns the single (pivot_hash, receipts,
// bloom) tuple durably persisted for hash, or (nil, nil) if none has ever
// been recorded. Only the most recently written pivot assumption is ever
// retained on disk — spec.md §6's block-execution-result family stores one
// tuple, not a history of every pivot a block has ever been assumed under.
func ReadBlockExecutionResult(db store.Reader, hash common.Hash) (*types.BlockExecutionResult, error) {
	data, err := db.Get(store.FamilyReceipts, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result := new(types.BlockExecutionResult)
	if err := rlpcodec.Decode("receipts", hashKey(hash), data, result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteBlockExecutionResult persists result for hash, overwriting any
// previously persisted pivot assumption (spec.md §4.G step 2: a pivot
// reassignment writes (assumed_pivot, receipts) back to the store under
// h's key, discarding whatever tuple was there before).
func WriteBlockExecutionResult(db store.Writer, hash common.Hash, result *types.BlockExecutionResult) error {
	data, err := rlpcodec.Encode(result)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyReceipts, hashKey(hash), data)
}

// DeleteBlockExecutionResult removes the persisted receipts tuple for
// hash.
func DeleteBlockExecutionResult(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyReceipts, hashKey(hash))
}
