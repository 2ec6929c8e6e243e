package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionWithSignature is a transaction as received from the wire or
// from a peer's compact block: it carries a signature but the signer has
// not yet been recovered from it.
type TransactionWithSignature struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	V        byte
	R        *big.Int
	S        *big.Int
}

// Hash identifies the transaction by the hash of its signed encoding.
func (tx *TransactionWithSignature) Hash() common.Hash {
	return rlpHash(tx)
}

// SignedTransaction is a TransactionWithSignature whose signer has been
// recovered (by txdata.Manager) and cached alongside it.
type SignedTransaction struct {
	TransactionWithSignature
	from common.Address
}

// From returns the recovered sender address.
func (tx *SignedTransaction) From() common.Address { return tx.from }

// SetFrom records the recovered sender. Called only by txdata.Manager once
// signature recovery succeeds.
func (tx *SignedTransaction) SetFrom(addr common.Address) { tx.from = addr }

// Hash identifies the transaction.
func (tx *SignedTransaction) Hash() common.Hash {
	return tx.TransactionWithSignature.Hash()
}

// Block is a header plus the ordered sequence of signed transactions it
// carries.
type Block struct {
	Header       *Header
	Transactions []*SignedTransaction
}

// Hash returns the block's identifying hash (that of its header).
func (b *Block) Hash() common.Hash { return b.Header.Hash() }

// Height returns the block's height.
func (b *Block) Height() uint64 { return b.Header.Height }

// CompactBlock is a header plus short transaction ids, as produced by peers
// to save bandwidth. The block data manager keeps compact blocks in memory
// only, although rawdb provides WriteCompactBlock/ReadCompactBlock.
type CompactBlock struct {
	Header    *Header
	TxShortIDs []uint64
	// ReconstructedTxs holds the transactions this node has already
	// resolved locally for the short ids at the same index; nil entries
	// mark still-missing transactions.
	ReconstructedTxs []*SignedTransaction
}

// Hash returns the compact block's identifying hash.
func (cb *CompactBlock) Hash() common.Hash { return cb.Header.Hash() }
