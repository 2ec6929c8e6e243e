package bdm

import (
	"strconv"

	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/types"
)

// GetBlamedHeaderVerifiedRoots returns the light-client-verified roots
// recorded at height, or (nil, nil) if none is recorded there.
func (m *BlockDataManager) GetBlamedHeaderVerifiedRoots(height uint64) (*types.BlamedHeaderVerifiedRoots, error) {
	roots, found, err := m.blamed.Get("blamed:"+strconv.FormatUint(height, 10), height, func() (*types.BlamedHeaderVerifiedRoots, bool, error) {
		r, err := rawdb.ReadBlamedHeaderVerifiedRoots(m.db, height)
		return r, r != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	return roots, nil
}

// InsertBlamedHeaderVerifiedRoots persists roots at height and warms the
// cache.
func (m *BlockDataManager) InsertBlamedHeaderVerifiedRoots(height uint64, roots *types.BlamedHeaderVerifiedRoots) error {
	if err := rawdb.WriteBlamedHeaderVerifiedRoots(m.db, height, roots); err != nil {
		return err
	}
	m.blamed.Insert(height, roots)
	return nil
}
