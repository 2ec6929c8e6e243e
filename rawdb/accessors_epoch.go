package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadEpochExecutionCommitment returns the commitment recorded for
// epochHash, or (nil, nil) if the epoch hasn't been executed yet.
func ReadEpochExecutionCommitment(db store.Reader, epochHash common.Hash) (*types.EpochExecutionCommitment, error) {
	data, err := db.Get(store.FamilyEpochCommitment, hashKey(epochHash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	commitment := new(types.EpochExecutionCommitment)
	if err := rlpcodec.Decode("epoch_commitment", hashKey(epochHash), data, commitment); err != nil {
		return nil, err
	}
	return commitment, nil
}

// WriteEpochExecutionCommitment persists commitment for epochHash.
func WriteEpochExecutionCommitment(db store.Writer, epochHash common.Hash, commitment *types.EpochExecutionCommitment) error {
	data, err := rlpcodec.Encode(commitment)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyEpochCommitment, hashKey(epochHash), data)
}

// DeleteEpochExecutionCommitment removes the commitment for epochHash.
func DeleteEpochExecutionCommitment(db store.Writer, epochHash common.Hash) error {
	return db.Delete(store.FamilyEpochCommitment, hashKey(epochHash))
}

// ReadEpochExecutionContext returns the execution context recorded for
// epochHash, or (nil, nil) if absent.
func ReadEpochExecutionContext(db store.Reader, epochHash common.Hash) (*types.EpochExecutionContext, error) {
	data, err := db.Get(store.FamilyEpochContext, hashKey(epochHash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ctx := new(types.EpochExecutionContext)
	if err := rlpcodec.Decode("epoch_context", hashKey(epochHash), data, ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

// WriteEpochExecutionContext persists ctx for epochHash.
func WriteEpochExecutionContext(db store.Writer, epochHash common.Hash, ctx *types.EpochExecutionContext) error {
	data, err := rlpcodec.Encode(ctx)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyEpochContext, hashKey(epochHash), data)
}

// DeleteEpochExecutionContext removes the context for epochHash.
func DeleteEpochExecutionContext(db store.Writer, epochHash common.Hash) error {
	return db.Delete(store.FamilyEpochContext, hashKey(epochHash))
}
