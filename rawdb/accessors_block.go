package rawdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/rlpcodec"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

// blockBody is the RLP-persisted shape of a block's body: the header is
// stored separately (FamilyHeader) and rejoined on read, mirroring the
// teacher's header/body split in core/rawdb.
type blockBody struct {
	Transactions []*types.SignedTransaction
}

// ReadBlock reassembles a full block from its separately stored header and
// body, or returns (nil, nil) if either half is absent.
func ReadBlock(db store.Reader, hash common.Hash) (*types.Block, error) {
	header, err := ReadHeader(db, hash)
	if err != nil || header == nil {
		return nil, err
	}
	data, err := db.Get(store.FamilyBody, hashKey(hash))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	body := new(blockBody)
	if err := rlpcodec.Decode("body", hashKey(hash), data, body); err != nil {
		return nil, err
	}
	return &types.Block{Header: header, Transactions: body.Transactions}, nil
}

// WriteBlock persists a block's header and body.
func WriteBlock(db store.Writer, block *types.Block) error {
	if err := WriteHeader(db, block.Header); err != nil {
		return err
	}
	data, err := rlpcodec.Encode(&blockBody{Transactions: block.Transactions})
	if err != nil {
		return err
	}
	return db.Put(store.FamilyBody, hashKey(block.Header.Hash()), data)
}

// DeleteBody removes only the body for hash, leaving the header intact —
// used when a block's transactions are pruned but its header is retained
// for DAG traversal (spec.md §6's body/header GC split).
func DeleteBody(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyBody, hashKey(hash))
}

// HasBody reports whether a body is present for hash.
func HasBody(db store.Reader, hash common.Hash) (bool, error) {
	return db.Has(store.FamilyBody, hashKey(hash))
}

// ReadCompactBlock returns the compact block for hash, or (nil, nil) if
// absent. Compact blocks are stored in the body family under a
// hash-prefixed key, since they're a distinct on-wire shape for the same
// block hash.
func ReadCompactBlock(db store.Reader, hash common.Hash) (*types.CompactBlock, error) {
	key := compactKey(hash)
	data, err := db.Get(store.FamilyBody, key)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cb := new(types.CompactBlock)
	if err := rlpcodec.Decode("compact_body", key, data, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

// WriteCompactBlock persists a compact block.
func WriteCompactBlock(db store.Writer, cb *types.CompactBlock) error {
	data, err := rlpcodec.Encode(cb)
	if err != nil {
		return err
	}
	return db.Put(store.FamilyBody, compactKey(cb.Header.Hash()), data)
}

// DeleteCompactBlock removes the compact block for hash.
func DeleteCompactBlock(db store.Writer, hash common.Hash) error {
	return db.Delete(store.FamilyBody, compactKey(hash))
}

func compactKey(hash common.Hash) []byte {
	key := make([]byte, 0, len(hash)+1)
	key = append(key, 'c')
	key = append(key, hash[:]...)
	return key
}
