package types

import "github.com/ethereum/go-ethereum/common"

// BlamedHeaderVerifiedRoots records, for one height, the roots a light
// client has independently verified as correct for headers that blamed
// their deferred execution (i.e. headers whose author disagreed with the
// canonical deferred roots and recorded a blame count).
type BlamedHeaderVerifiedRoots struct {
	StateRoot    common.Hash
	ReceiptsRoot common.Hash
	LogsBloomHash common.Hash
}
