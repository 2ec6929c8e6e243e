package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadBlockRewardResult returns the reward breakdown computed for hash, or
// (nil, nil) if absent.
func ReadBlockRewardResult(db store.Reader, hash common.Hash) (*types.BlockRewardResult, error) {
	data, err := db.Get(store.FamilyReward, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result := new(types.BlockRewardResult)
	if err := rlpcodec.Decode("reward", hashKey(hash), data, result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteBlockRewardResult persists result for hash.
func WriteBlockRewardResult(db store.Writer, hash common.Hash, result *types.BlockRewardResult) error {
	data, err := rlpcodec.Encode(result)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyReward, hashKey(hash), data)
}

// DeleteBlockRewardResult removes the reward record for hash.
func DeleteBlockRewardResult(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyReward, hashKey(hash))
}
