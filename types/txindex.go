package types

import "github.com/ethereum/go-ethereum/common"

// TransactionIndex locates a transaction within the block that packed it.
type TransactionIndex struct {
	BlockHash common.Hash
	Index     uint32
}
