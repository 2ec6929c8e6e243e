package types

import "github.com/ethereum/go-ethereum/common"

// ExecTrace is a single recorded VM action (call, create, or a self
// destruct) within a transaction's execution trace.
type ExecTrace struct {
	Kind    string
	From    common.Address
	To      *common.Address `rlp:"nil"`
	Value   []byte
	GasLeft uint64
}

// BlockExecTraces is the ordered list of per-transaction trace sets for one
// block's execution.
type BlockExecTraces struct {
	TransactionTraces [][]ExecTrace
}
