// Package rawdb generalizes core/rawdb/accessors_chain.go's
// ReadHeader/WriteHeader pattern across every entity family named in
// spec.md §6, on top of the store.Database adapter and the rlpcodec
// entity codec.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// Key builders. Every family uses the block hash as its primary key except
// where the family is naturally keyed by height, epoch hash, or a fixed
// singleton key — mirrored from the heterogeneous keying spec.md §6 calls
// out per family.

func hashKey(hash common.Hash) []byte {
	return hash[:]
}

func heightKey(height uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, height)
	return buf
}

// singletonKey is the key under which the checkpoint and a handful of
// other families hold exactly one record
// under a fixed sentinel key — there's no natural per-entity key for a
// singleton.
var singletonKey = []byte("singleton")
