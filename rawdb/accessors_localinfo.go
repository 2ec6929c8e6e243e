package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadLocalBlockInfo returns the node's local validity verdict for hash, or
// (nil, nil) if the block has never been locally processed.
func ReadLocalBlockInfo(db store.Reader, hash common.Hash) (*types.LocalBlockInfo, error) {
	data, err := db.Get(store.FamilyLocalBlockInfo, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info := new(types.LocalBlockInfo)
	if err := rlpcodec.DecodeValidate("local_block_info", hashKey(hash), data, info); err != nil {
		return nil, err
	}
	return info, nil
}

// WriteLocalBlockInfo persists info for hash.
func WriteLocalBlockInfo(db store.Writer, hash common.Hash, info *types.LocalBlockInfo) error {
	data, err := rlpcodec.Encode(info)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyLocalBlockInfo, hashKey(hash), data)
}

// DeleteLocalBlockInfo removes the local-info record for hash.
func DeleteLocalBlockInfo(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyLocalBlockInfo, hashKey(hash))
}
