package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// GetBlockExecTraces returns the execution traces for hash, or (nil, nil)
// if none were recorded.
func (m *BlockDataManager) GetBlockExecTraces(hash common.Hash) (*types.BlockExecTraces, error) {
	traces, found, err := m.traces.Get("traces:"+hash.Hex(), hash, func() (*types.BlockExecTraces, bool, error) {
		t, err := rawdb.ReadBlockExecTraces(m.db, hash)
		return t, t != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return traces, nil
}

// InsertBlockExecTraces persists traces for hash and warms the cache.
func (m *BlockDataManager) InsertBlockExecTraces(hash common.Hash, traces *types.BlockExecTraces) error {
	if err := rawdb.WriteBlockExecTraces(m.db, hash, traces); err != nil {
		return err
	}
	m.traces.Insert(hash, traces)
	return nil
}

// RemoveBlockExecTraces deletes hash's trace record from the durable store
// and memory. Kept as its own accessor so it only ever touches
// FamilyTrace — see DESIGN.md for why that matters.
func (m *BlockDataManager) RemoveBlockExecTraces(hash common.Hash) error {
	m.traces.Remove(hash)
	return rawdb.DeleteBlockExecTraces(m.db, hash)
}
