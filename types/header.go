package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Header is a DAG block header. It deliberately mirrors only the fields the
// block data manager itself reasons about (ancestry, height, and the
// deferred commitments that anchor execution results); fields that matter
// only to consensus scoring or PoW verification are opaque extra data as
// far as this module is concerned.
type Header struct {
	ParentHash       common.Hash   `json:"parentHash"       gencodec:"required"`
	RefereeHashes    []common.Hash `json:"refereeHashes"`
	Height           uint64        `json:"height"            gencodec:"required"`
	Timestamp        uint64        `json:"timestamp"         gencodec:"required"`
	Author           common.Address `json:"miner"            gencodec:"required"`
	DeferredStateRoot    common.Hash `json:"deferredStateRoot"    gencodec:"required"`
	DeferredReceiptsRoot common.Hash `json:"deferredReceiptsRoot" gencodec:"required"`
	DeferredLogsBloomHash common.Hash `json:"deferredLogsBloomHash" gencodec:"required"`
	Extra            []byte        `json:"extraData"`

	// hash caches the header's own identifier; it is computed once by the
	// producer (or recovered from the wire) and carried alongside the
	// header rather than recomputed on every access.
	hash common.Hash
}

// NewHeader constructs a header and stamps its identifying hash.
func NewHeader(h Header, hash common.Hash) *Header {
	h.hash = hash
	return &h
}

// NewHeaderWithComputedHash constructs a header and derives its
// identifying hash from its RLP encoding (the unexported hash field is
// never itself part of that encoding), the way a block producer computes
// a fresh header's hash before broadcasting it.
func NewHeaderWithComputedHash(h Header) *Header {
	h.hash = rlpHash(&h)
	return &h
}

// Hash returns the block hash identifying this header.
func (h *Header) Hash() common.Hash {
	return h.hash
}

// SetHash overrides the cached hash; used by the codec on decode, where the
// hash is stored alongside the encoded header rather than recomputed.
func (h *Header) SetHash(hash common.Hash) {
	h.hash = hash
}

// Clone returns a deep-enough copy safe to hand to a caller that may mutate
// the referee list.
func (h *Header) Clone() *Header {
	cp := *h
	cp.RefereeHashes = append([]common.Hash(nil), h.RefereeHashes...)
	cp.Extra = append([]byte(nil), h.Extra...)
	return &cp
}
