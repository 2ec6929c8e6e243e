package rawdb

import (
	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadBlamedHeaderVerifiedRoots returns the light-client-verified roots
// recorded at height, or (nil, nil) if none is recorded there.
func ReadBlamedHeaderVerifiedRoots(db store.Reader, height uint64) (*types.BlamedHeaderVerifiedRoots, error) {
	key := heightKey(height)
	data, err := db.Get(store.FamilyBlamedRoots, key)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	roots := new(types.BlamedHeaderVerifiedRoots)
	if err := rlpcodec.Decode("blamed_roots", key, data, roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// WriteBlamedHeaderVerifiedRoots persists roots at height.
func WriteBlamedHeaderVerifiedRoots(db store.Writer, height uint64, roots *types.BlamedHeaderVerifiedRoots) error {
	data, err := rlpcodec.Encode(roots)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyBlamedRoots, heightKey(height), data)
}

// DeleteBlamedHeaderVerifiedRoots removes the record at height.
func DeleteBlamedHeaderVerifiedRoots(db store.Writer, height uint64) error {
	return db.Delete(store.FamilyBlamedRoots, heightKey(height))
}
