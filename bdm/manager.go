package bdm

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/conflux-chain/bdm/availability"
	"github.com/conflux-chain/bdm/bdm/external"
	"github.com/conflux-chain/bdm/cachemgr"
	"github.com/conflux-chain/bdm/gcprogress"
	"github.com/conflux-chain/bdm/invalidset"
	"github.com/conflux-chain/bdm/rawdb"
	"github.com/conflux-chain/bdm/store"
	"github.com/conflux-chain/bdm/txdata"
	"github.com/conflux-chain/bdm/types"
)

// errInvariantBroken marks a construction-time invariant violation (e.g. a
// persisted checkpoint pointing at a header the store no longer has); New
// returns it rather than panicking, per spec.md §7.
var errInvariantBroken = errors.New("bdm: invariant broken during construction")

// EraGenesisSwitch is broadcast on the era-genesis feed whenever
// SetCurEraGenesisHash changes the current era, mirroring
// set_cur_consensus_era_genesis_hash in the Rust source.
type EraGenesisSwitch struct {
	OldEraGenesisHash common.Hash
	NewEraGenesisHash common.Hash
	NewEraStableHash  common.Hash
}

// BlockDataManager is the top-level component composing the store,
// cache, invalid-block, GC-progress, transaction-data and availability
// subsystems, the way core.BlockChain composes core.HeaderChain in the
// teacher.
type BlockDataManager struct {
	cfg     Config
	db      store.Database
	cache   *cachemgr.Tracker
	invalid *invalidset.Set
	gc      *gcprogress.Tracker
	tx      *txdata.Manager
	avail   *availability.Boundary
	storage external.Storage
	pivot   external.PivotChain
	metrics *metricsSet

	instanceID types.InstanceID
	sequence   atomic.Uint64

	headers          *familyCache[common.Hash, *types.Header]
	blocks           *familyCache[common.Hash, *types.Block]
	compactBlocks    *familyCache[common.Hash, *types.CompactBlock]
	receipts         *familyCache[common.Hash, *types.BlockReceiptsInfo]
	rewards          *familyCache[common.Hash, *types.BlockRewardResult]
	traces           *familyCache[common.Hash, *types.BlockExecTraces]
	txIndex          *familyCache[common.Hash, *types.TransactionIndex]
	localInfo        *familyCache[common.Hash, *types.LocalBlockInfo]
	blamed           *familyCache[uint64, *types.BlamedHeaderVerifiedRoots]
	epochCommitments *familyCache[common.Hash, *types.EpochExecutionCommitment]
	epochContexts    *familyCache[common.Hash, *types.EpochExecutionContext]

	eraMu             sync.RWMutex
	curEraGenesisHash common.Hash
	curEraStableHash  common.Hash

	terminalsMu sync.RWMutex
	terminals   []common.Hash

	eraGenesisFeed   event.Feed
	invalidBlockFeed event.Feed
}

// New constructs a BlockDataManager. Every construction bumps the
// persisted instance id; the era-genesis checkpoint is seeded if this is
// the first construction against db, or restored otherwise. genesisBlock must be non-nil
// only on a brand-new store; it is ignored if a checkpoint already exists.
func New(cfg Config, db store.Database, storage external.Storage, registry metrics.Registry, genesisBlock *types.Block) (*BlockDataManager, error) {
	m := &BlockDataManager{
		cfg:              cfg,
		db:               db,
		cache:            cachemgr.NewTracker(cachemgr.TrackerConfig{PreferredSize: cfg.CachePreferredSize, MaxSize: cfg.CacheMaxSize}, registry),
		invalid:          invalidset.New(cfg.InvalidBlockSetCapacity),
		gc:               gcprogress.NewTracker(gcprogress.Config{CheckpointGCTimeInEpochCount: cfg.CheckpointGCTimeInEpochCount}),
		tx:               txdata.NewManager(txdata.Config{RecoveryWorkers: cfg.TxRecoveryWorkers, CacheMaintainInterval: cfg.TxCacheIndexMaintainTimeout, CacheEntryTTL: cfg.TxCacheIndexMaintainTimeout}),
		avail:            availability.New(),
		storage:          storage,
		metrics:          newMetricsSet(registry),
		headers:          newFamilyCache[common.Hash, *types.Header](),
		blocks:           newFamilyCache[common.Hash, *types.Block](),
		compactBlocks:    newFamilyCache[common.Hash, *types.CompactBlock](),
		receipts:         newFamilyCache[common.Hash, *types.BlockReceiptsInfo](),
		rewards:          newFamilyCache[common.Hash, *types.BlockRewardResult](),
		traces:           newFamilyCache[common.Hash, *types.BlockExecTraces](),
		txIndex:          newFamilyCache[common.Hash, *types.TransactionIndex](),
		localInfo:        newFamilyCache[common.Hash, *types.LocalBlockInfo](),
		blamed:           newFamilyCache[uint64, *types.BlamedHeaderVerifiedRoots](),
		epochCommitments: newFamilyCache[common.Hash, *types.EpochExecutionCommitment](),
		epochContexts:    newFamilyCache[common.Hash, *types.EpochExecutionContext](),
	}

	if err := m.initInstanceID(); err != nil {
		return nil, fmt.Errorf("bdm: init instance id: %w", err)
	}

	if err := m.initEraGenesis(genesisBlock); err != nil {
		return nil, err
	}

	return m, nil
}

// initInstanceID persists a monotonically increasing instance id tag
// before any other write this process makes, so every LocalBlockInfo
// record written this run can be attributed to this process incarnation.
func (m *BlockDataManager) initInstanceID() error {
	prev, found, err := rawdb.ReadInstanceID(m.db)
	if err != nil {
		return err
	}
	next := types.InstanceID(0)
	if found {
		next = prev + 1
	}
	if err := rawdb.WriteInstanceID(m.db, next); err != nil {
		return err
	}
	m.instanceID = next
	return nil
}

// initEraGenesis seeds the era-genesis checkpoint on a brand-new store, or
// restores the persisted checkpoint and validates that its header is
// actually present, aborting construction if not (an InvariantBroken
// condition per spec.md §7).
func (m *BlockDataManager) initEraGenesis(genesisBlock *types.Block) error {
	eraGenesisHash, eraStableHash, found, err := rawdb.ReadCheckpoint(m.db)
	if err != nil {
		return err
	}
	if !found {
		if genesisBlock == nil {
			return fmt.Errorf("%w: no checkpoint recorded and no genesis block supplied", errInvariantBroken)
		}
		if err := m.seedGenesis(genesisBlock); err != nil {
			return err
		}
		hash := genesisBlock.Hash()
		m.curEraGenesisHash = hash
		m.curEraStableHash = hash
		m.terminals = []common.Hash{hash}
		m.avail.Reset(hash, genesisBlock.Header.Height)
		return nil
	}

	header, err := rawdb.ReadHeader(m.db, eraGenesisHash)
	if err != nil {
		return err
	}
	if header == nil {
		return fmt.Errorf("%w: era genesis header %x missing from store", errInvariantBroken, eraGenesisHash)
	}
	m.curEraGenesisHash = eraGenesisHash
	m.curEraStableHash = eraStableHash

	terminals, err := rawdb.ReadTerminals(m.db)
	if err != nil {
		return err
	}
	m.terminals = terminals
	m.avail.Reset(eraGenesisHash, header.Height)

	// Re-adopt the era genesis's persisted execution context into memory
	// without re-persisting it (it's already on disk), and refresh its
	// LocalBlockInfo's instance id to this process incarnation, mirroring
	// the Rust source's restore path.
	ctx, err := rawdb.ReadEpochExecutionContext(m.db, eraGenesisHash)
	if err != nil {
		return err
	}
	if ctx != nil {
		m.epochContexts.Insert(eraGenesisHash, ctx)
	}

	info, err := rawdb.ReadLocalBlockInfo(m.db, eraGenesisHash)
	if err != nil {
		return err
	}
	if info != nil {
		refreshed := *info
		refreshed.InstanceID = m.instanceID
		if err := m.InsertLocalBlockInfo(eraGenesisHash, &refreshed); err != nil {
			return err
		}
	}
	return nil
}

// seedGenesis persists every record true genesis must have per spec.md
// §4.G: the header and body, a transaction index for each genesis
// transaction, the checkpoint/terminal bookkeeping, an
// EpochExecutionContext marking block number 0 as its start, a Valid
// LocalBlockInfo tagged with this instance id, and an
// EpochExecutionCommitment — so invariant 4 ("true_genesis always has an
// EpochExecutionCommitment and a LocalBlockInfo{status=Valid}") holds from
// construction onward.
func (m *BlockDataManager) seedGenesis(genesis *types.Block) error {
	header := genesis.Header
	hash := header.Hash()

	if err := rawdb.WriteCheckpoint(m.db, hash, hash); err != nil {
		return err
	}
	if err := rawdb.WriteTerminals(m.db, []common.Hash{hash}); err != nil {
		return err
	}

	state := types.GenesisStateRootWithAuxInfo(hash)
	if err := rawdb.WriteGenesisState(m.db, &state); err != nil {
		return err
	}

	if err := m.InsertBlock(genesis); err != nil {
		return err
	}
	for i, tx := range genesis.Transactions {
		idx := &types.TransactionIndex{BlockHash: hash, Index: uint32(i)}
		if err := m.InsertTransactionIndex(tx.Hash(), idx); err != nil {
			return err
		}
	}

	if err := m.InsertEpochExecutionContext(hash, &types.EpochExecutionContext{StartBlockNumber: 0}); err != nil {
		return err
	}

	info := types.NewLocalBlockInfo(types.StatusValid, m.NextSequence(), m.instanceID)
	if err := m.InsertLocalBlockInfo(hash, &info); err != nil {
		return err
	}

	commitment := &types.EpochExecutionCommitment{StateRootWithAuxInfo: state}
	if err := m.InsertEpochExecutionCommitment(hash, commitment); err != nil {
		return err
	}

	log.Info("seeded genesis", "hash", hash, "height", header.Height)
	return nil
}

// InstanceID returns this process incarnation's instance id.
func (m *BlockDataManager) InstanceID() types.InstanceID { return m.instanceID }

// NextSequence returns a monotonically increasing sequence number for
// tagging new LocalBlockInfo records, mirroring the Rust source's atomic
// sequence counter.
func (m *BlockDataManager) NextSequence() uint64 { return m.sequence.Add(1) }

// CurEraGenesisHash returns the current era's genesis block hash.
func (m *BlockDataManager) CurEraGenesisHash() common.Hash {
	m.eraMu.RLock()
	defer m.eraMu.RUnlock()
	return m.curEraGenesisHash
}

// CurEraStableHash returns the current era's stable checkpoint hash.
func (m *BlockDataManager) CurEraStableHash() common.Hash {
	m.eraMu.RLock()
	defer m.eraMu.RUnlock()
	return m.curEraStableHash
}

// SetCurEraGenesisHash atomically swaps the era genesis/stable hash pair,
// persists the new checkpoint, and broadcasts the switch to subscribers —
// mirroring set_cur_consensus_era_genesis_hash in the Rust source.
func (m *BlockDataManager) SetCurEraGenesisHash(newEraGenesisHash, newEraStableHash common.Hash) error {
	m.eraMu.Lock()
	old := m.curEraGenesisHash
	m.curEraGenesisHash = newEraGenesisHash
	m.curEraStableHash = newEraStableHash
	m.eraMu.Unlock()

	if err := rawdb.WriteCheckpoint(m.db, newEraGenesisHash, newEraStableHash); err != nil {
		return err
	}
	m.eraGenesisFeed.Send(EraGenesisSwitch{
		OldEraGenesisHash: old,
		NewEraGenesisHash: newEraGenesisHash,
		NewEraStableHash:  newEraStableHash,
	})
	return nil
}

// SubscribeEraGenesisSwitch registers ch to receive EraGenesisSwitch
// events, the same event.Feed/event.Subscription pattern
// core/blockchain.go uses for chainHeadFeed.
func (m *BlockDataManager) SubscribeEraGenesisSwitch(ch chan<- EraGenesisSwitch) event.Subscription {
	return m.eraGenesisFeed.Subscribe(ch)
}

// SubscribeInvalidBlock registers ch to receive notifications of newly
// confirmed-invalid block hashes.
func (m *BlockDataManager) SubscribeInvalidBlock(ch chan<- common.Hash) event.Subscription {
	return m.invalidBlockFeed.Subscribe(ch)
}

// SetPivotChain wires the consensus layer's pivot-chain resolver in,
// needed before RunDatabaseGC can be called. The BDM can be constructed
// and used for everything else before this is set, since pivot-chain
// knowledge typically becomes available only once consensus has started.
func (m *BlockDataManager) SetPivotChain(pivot external.PivotChain) {
	m.pivot = pivot
}

// Availability exposes the state availability boundary tracker.
func (m *BlockDataManager) Availability() *availability.Boundary { return m.avail }

// TxManager exposes the transaction data manager.
func (m *BlockDataManager) TxManager() *txdata.Manager { return m.tx }

// CachedBlockCount reports how many blocks are currently cached in
// memory, recovered from the Rust source's cached_block_count.
func (m *BlockDataManager) CachedBlockCount() int {
	return m.blocks.Len()
}

// CacheSize reports the cache manager's current total tracked bytes,
// recovered from the Rust source's cache_size.
func (m *BlockDataManager) CacheSize() uint64 {
	return m.cache.Size()
}

// Close shuts down background goroutines and the durable store.
func (m *BlockDataManager) Close() error {
	m.tx.Stop()
	return m.db.Close()
}
