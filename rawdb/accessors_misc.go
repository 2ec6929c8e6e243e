package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// terminalsRLP is the wire shape for the DAG terminal-block set: every
// block currently known to have no children, the BDM's frontier.
type terminalsRLP struct {
	Hashes []common.Hash
}

// ReadTerminals returns the current terminal-block set, or nil if it has
// never been written (e.g. a brand new store before genesis is seeded).
func ReadTerminals(db store.Reader) ([]common.Hash, error) {
	data, err := db.Get(store.FamilyTerminals, singletonKey)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	wire := new(terminalsRLP)
	if err := rlpcodec.Decode("terminals", singletonKey, data, wire); err != nil {
		return nil, err
	}
	return wire.Hashes, nil
}

// WriteTerminals persists the current terminal-block set.
func WriteTerminals(db store.Writer, hashes []common.Hash) error {
	data, err := rlpcodec.Encode(&terminalsRLP{Hashes: hashes})
	if err != nil {
		return err
	}
	return db.Put(store.FamilyTerminals, singletonKey, data)
}

type epochSetRLP struct {
	Hashes []common.Hash
}

// ReadExecutedEpochSet returns the ordered block-hash set executed under
// epochHash, or (nil, nil) if the epoch hasn't been executed.
func ReadExecutedEpochSet(db store.Reader, epochHash common.Hash) ([]common.Hash, error) {
	return readEpochSet(db, store.FamilyExecutedEpochSet, epochHash)
}

// WriteExecutedEpochSet persists the executed block-hash set for epochHash.
func WriteExecutedEpochSet(db store.Writer, epochHash common.Hash, hashes []common.Hash) error {
	return writeEpochSet(db, store.FamilyExecutedEpochSet, epochHash, hashes)
}

// ReadSkippedEpochSet returns the block-hash set skipped (not executed, but
// ordered into) epochHash, or (nil, nil) if none is recorded.
func ReadSkippedEpochSet(db store.Reader, epochHash common.Hash) ([]common.Hash, error) {
	return readEpochSet(db, store.FamilySkippedEpochSet, epochHash)
}

// WriteSkippedEpochSet persists the skipped block-hash set for epochHash.
func WriteSkippedEpochSet(db store.Writer, epochHash common.Hash, hashes []common.Hash) error {
	return writeEpochSet(db, store.FamilySkippedEpochSet, epochHash, hashes)
}

func readEpochSet(db store.Reader, family store.Family, epochHash common.Hash) ([]common.Hash, error) {
	data, err := db.Get(family, hashKey(epochHash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	wire := new(epochSetRLP)
	if err := rlpcodec.Decode("epoch_set", hashKey(epochHash), data, wire); err != nil {
		return nil, err
	}
	return wire.Hashes, nil
}

func writeEpochSet(db store.Writer, family store.Family, epochHash common.Hash, hashes []common.Hash) error {
	data, err := rlpcodec.Encode(&epochSetRLP{Hashes: hashes})
	if err != nil {
		return err
	}
	return db.Put(family, hashKey(epochHash), data)
}

// checkpointRLP pairs the era genesis and era stable hashes, swapped
// atomically on a checkpoint transition (spec.md §4.G).
type checkpointRLP struct {
	EraGenesisHash common.Hash
	EraStableHash  common.Hash
}

// ReadCheckpoint returns the current (era genesis, era stable) hash pair,
// or (zero, zero, false) if none has been recorded yet.
func ReadCheckpoint(db store.Reader) (eraGenesisHash, eraStableHash common.Hash, found bool, err error) {
	data, err := db.Get(store.FamilyCheckpoint, singletonKey)
	if err == store.ErrNotFound {
		return common.Hash{}, common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, common.Hash{}, false, err
	}
	wire := new(checkpointRLP)
	if err := rlpcodec.Decode("checkpoint", singletonKey, data, wire); err != nil {
		return common.Hash{}, common.Hash{}, false, err
	}
	return wire.EraGenesisHash, wire.EraStableHash, true, nil
}

// WriteCheckpoint atomically records the era genesis/stable hash pair.
func WriteCheckpoint(db store.Writer, eraGenesisHash, eraStableHash common.Hash) error {
	data, err := rlpcodec.Encode(&checkpointRLP{EraGenesisHash: eraGenesisHash, EraStableHash: eraStableHash})
	if err != nil {
		return err
	}
	return db.Put(store.FamilyCheckpoint, singletonKey, data)
}

// ReadInstanceID returns the persisted instance id, or (0, false) if this
// is a brand new store.
func ReadInstanceID(db store.Reader) (types.InstanceID, bool, error) {
	data, err := db.Get(store.FamilyInstanceID, singletonKey)
	if err == store.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var id types.InstanceID
	if err := rlpcodec.Decode("instance_id", singletonKey, data, &id); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// WriteInstanceID persists id. Must be durably written before any other
// write in the same startup, since every subsequent local-block-info
// record is tagged with it (spec.md §4.G instance-id lifecycle).
func WriteInstanceID(db store.Writer, id types.InstanceID) error {
	data, err := rlpcodec.Encode(&id)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyInstanceID, singletonKey, data)
}

// ReadGenesisState returns the persisted genesis state commitment, or
// (nil, nil) if the store predates genesis seeding.
func ReadGenesisState(db store.Reader) (*types.StateRootWithAuxInfo, error) {
	data, err := db.Get(store.FamilyGenesisState, singletonKey)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	state := new(types.StateRootWithAuxInfo)
	if err := rlpcodec.Decode("genesis_state", singletonKey, data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// WriteGenesisState persists the genesis state commitment.
func WriteGenesisState(db store.Writer, state *types.StateRootWithAuxInfo) error {
	data, err := rlpcodec.Encode(state)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyGenesisState, singletonKey, data)
}

// ReadGCEnd returns the exclusive end of the most recently armed database
// GC range, or (0, false) if a checkpoint has never armed one.
func ReadGCEnd(db store.Reader) (uint64, bool, error) {
	data, err := db.Get(store.FamilyGCProgress, singletonKey)
	if err == store.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var end uint64
	if err := rlpcodec.Decode("gc_end", singletonKey, data, &end); err != nil {
		return 0, false, err
	}
	return end, true, nil
}

// WriteGCEnd persists the exclusive end of the currently armed database GC
// range, set by a checkpoint transition (spec.md §6's new_checkpoint).
func WriteGCEnd(db store.Writer, end uint64) error {
	data, err := rlpcodec.Encode(&end)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyGCProgress, singletonKey, data)
}

// ReadChainConfig returns the raw chain-config blob persisted at startup,
// or (nil, nil) if none is recorded. The BDM stores this opaquely — it has
// no business interpreting fork schedules, only persisting what its
// consensus-layer collaborator hands it (spec.md §1 boundary).
func ReadChainConfig(db store.Reader) ([]byte, error) {
	data, err := db.Get(store.FamilyChainConfig, singletonKey)
	if err == store.ErrNotFound {
		return nil, nil
	}
	return data, err
}

// WriteChainConfig persists the raw chain-config blob.
func WriteChainConfig(db store.Writer, data []byte) error {
	return db.Put(store.FamilyChainConfig, singletonKey, data)
}
