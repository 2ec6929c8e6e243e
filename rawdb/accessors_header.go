package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// ReadHeader returns the header for hash, or (nil, nil) if absent. A
// non-nil error means either a durable-store I/O failure or a corrupted
// record, both fatal per spec.md §7.
func ReadHeader(db store.Reader, hash common.Hash) (*types.Header, error) {
	data, err := db.Get(store.FamilyHeader, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	header := new(types.Header)
	if err := rlpcodec.Decode("header", hashKey(hash), data, header); err != nil {
		return nil, err
	}
	header.SetHash(hash)
	return header, nil
}

// WriteHeader persists header, keyed by its own hash.
func WriteHeader(db store.Writer, header *types.Header) error {
	data, err := rlpcodec.Encode(header)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyHeader, hashKey(header.Hash()), data)
}

// DeleteHeader removes the header for hash.
func DeleteHeader(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyHeader, hashKey(hash))
}

// HasHeader reports whether a header is present for hash.
func HasHeader(db store.Reader, hash common.Hash) (bool, error) {
	return db.Has(store.FamilyHeader, hashKey(hash))
}
