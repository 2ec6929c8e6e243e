package types

import "github.com/ethereum/go-ethereum/common"

// StateRootWithAuxInfo is the state manager's computed commitment for one
// epoch, plus the auxiliary delta-hash information it needs to verify
// snapshots. The BDM only stores this value; it never computes it (the
// storage/state-trie manager is an external collaborator, spec.md §1).
type StateRootWithAuxInfo struct {
	StateRoot        common.Hash
	IntermediateRoot common.Hash
	DeltaRoot        common.Hash
}

// GenesisStateRootWithAuxInfo returns the deterministic placeholder
// commitment the BDM assigns to the true genesis block: the genesis hash
// stands in for the state and intermediate roots. The BDM records this
// placeholder when it seeds genesis; it does not obtain the real state
// root from the storage collaborator.
func GenesisStateRootWithAuxInfo(genesisHash common.Hash) StateRootWithAuxInfo {
	return StateRootWithAuxInfo{
		StateRoot:        genesisHash,
		IntermediateRoot: genesisHash,
		DeltaRoot:        common.Hash{},
	}
}

// EpochExecutionCommitment is the tuple produced by executing an epoch:
// the state root (with aux info), the receipts root, and the logs bloom
// hash.
type EpochExecutionCommitment struct {
	StateRootWithAuxInfo StateRootWithAuxInfo
	ReceiptsRoot         common.Hash
	LogsBloomHash        common.Hash
}

// EpochExecutionContext carries the information needed to re-execute or
// validate an epoch without re-deriving it from the whole DAG: currently
// just the block-number offset the epoch starts at.
type EpochExecutionContext struct {
	StartBlockNumber uint64
}
