// Package types defines the entities owned by the block data manager:
// headers, bodies, compact bodies, receipts, rewards, traces, transaction
// indices, local block status, and per-epoch execution commitments.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// rlpHash returns the Keccak256 hash of the RLP encoding of v. It is used to
// derive content-addressed identifiers (transaction hashes) from their
// canonical wire encoding.
func rlpHash(v interface{}) (h common.Hash) {
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// BlockHash identifies a block in the DAG.
type BlockHash = common.Hash

// Height is a block height or epoch number.
type Height = uint64

// InstanceID tags the blocks and local state learned during one process
// lifetime. It must be strictly increasing across restarts.
type InstanceID = uint64

// NullSequence is the sequence number assigned to blocks that will never
// enter consensus (invalidated blocks).
const NullSequence uint64 = ^uint64(0)

// NullEpoch is the zero hash used as a sentinel "no epoch" value.
var NullEpoch = common.Hash{}

// Bloom is a 2048-bit log bloom filter.
type Bloom [256]byte

// Accrue ORs another bloom into this one, as done when folding the blooms
// of every receipt in a block into one block-level bloom.
func (b *Bloom) Accrue(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// BigToHash is a convenience helper used when constructing deterministic
// test fixtures and genesis state roots.
func BigToHash(n *big.Int) common.Hash {
	return common.BigToHash(n)
}
