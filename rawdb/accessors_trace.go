package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadBlockExecTraces returns the execution traces for hash, or (nil, nil)
// if absent (traces are optional regardless of whether receipts exist,
// spec.md §6).
func ReadBlockExecTraces(db store.Reader, hash common.Hash) (*types.BlockExecTraces, error) {
	data, err := db.Get(store.FamilyTrace, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	traces := new(types.BlockExecTraces)
	if err := rlpcodec.Decode("traces", hashKey(hash), data, traces); err != nil {
		return nil, err
	}
	return traces, nil
}

// WriteBlockExecTraces persists traces for hash.
func WriteBlockExecTraces(db store.Writer, hash common.Hash, traces *types.BlockExecTraces) error {
	data, err := rlpcodec.Encode(traces)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyTrace, hashKey(hash), data)
}

// DeleteBlockExecTraces removes the trace record for hash. Named
// separately from DeleteHeader deliberately: the Rust source's
// remove_block_traces historically deleted the wrong column family (see
// DESIGN.md), and this accessor exists precisely so that mistake can't
// recur — it only ever touches FamilyTrace.
func DeleteBlockExecTraces(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyTrace, hashKey(hash))
}
