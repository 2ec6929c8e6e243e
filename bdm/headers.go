package bdm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/conflux-chain/bdm/cachemgr"
	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/types"
)

func headerCacheID(hash common.Hash) cachemgr.CacheID {
	return cachemgr.CacheID{Family: store.FamilyHeader, Key: hash}
}

// GetHeader returns the header for hash, checking memory first and
// falling through to the durable store on a miss, or (nil, nil) if
// neither has it.
func (m *BlockDataManager) GetHeader(hash common.Hash) (*types.Header, error) {
	header, found, err := m.headers.Get("header:"+hash.Hex(), hash, func() (*types.Header, bool, error) {
		h, err := rawdb.ReadHeader(m.db, hash)
		return h, h != nil, err
	})
	if err != nil || !found {
		return nil, err
	}
	m.cache.NoteUsed(headerCacheID(hash), headerByteSize(header))
	return header, nil
}

// InsertHeader persists header to the durable store and warms the
// in-memory cache.
func (m *BlockDataManager) InsertHeader(header *types.Header) error {
	if err := rawdb.WriteHeader(m.db, header); err != nil {
		return err
	}
	m.headers.Insert(header.Hash(), header)
	m.cache.NoteUsed(headerCacheID(header.Hash()), headerByteSize(header))
	return nil
}

// RemoveHeaderFromMemory evicts hash from the in-memory header cache only,
// called by cache_gc; the durable-store record is untouched.
func (m *BlockDataManager) RemoveHeaderFromMemory(hash common.Hash) {
	m.headers.Remove(hash)
}

func headerByteSize(h *types.Header) uint64 {
	return uint64(200 + len(h.Extra) + 32*len(h.RefereeHashes))
}
