package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadTransactionIndex returns the owning block/position for a transaction
// hash, or (nil, nil) if it was never indexed (e.g. tx-index GC ran past
// it, or it belongs to an unexecuted epoch).
func ReadTransactionIndex(db store.Reader, txHash common.Hash) (*types.TransactionIndex, error) {
	data, err := db.Get(store.FamilyTxIndex, hashKey(txHash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	idx := new(types.TransactionIndex)
	if err := rlpcodec.Decode("txindex", hashKey(txHash), data, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// WriteTransactionIndex persists idx for txHash.
func WriteTransactionIndex(db store.Writer, txHash common.Hash, idx *types.TransactionIndex) error {
	data, err := rlpcodec.Encode(idx)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyTxIndex, hashKey(txHash), data)
}

// DeleteTransactionIndex removes the index record for txHash — the
// operation the GC progress tracker's tx-index pass must complete before
// the corresponding body GC pass runs (spec.md §4.F ordering invariant).
func DeleteTransactionIndex(db store.Writer, txHash common.Hash) error {
	return db.Delete(store.FamilyTxIndex, hashKey(txHash))
}
