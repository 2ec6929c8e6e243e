// Package txdata is the Transaction Data Manager of spec.md §4.E: it
// recovers transaction senders from signatures, in parallel, and caches
// the result so the same signature is not verified again while its cache
// entry lives. Recovery
// dispatches into a shared github.com/JekaMas/workerpool, standing in for
// the Rust source's threadpool::ThreadPool, sized by Config.RecoveryWorkers.
// The recovered-sender cache expires entries via a background sweep
// goroutine on a time.Ticker, matching tx_cache_index_maintain_timeout,
// rather than lazily on access.
package txdata

import (
	"sync"
	"time"

	"github.com/JekaMas/workerpool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/conflux-chain/bdm/types"
)

// Config bounds the manager's worker pool and cache lifetime, per
// spec.md §6.
type Config struct {
	// RecoveryWorkers bounds concurrent signature-recovery goroutines.
	RecoveryWorkers int
	// CacheMaintainInterval is how often the sweep goroutine checks for
	// expired sender-cache entries.
	CacheMaintainInterval time.Duration
	// CacheEntryTTL is how long a recovered sender stays cached after its
	// last use.
	CacheEntryTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.RecoveryWorkers <= 0 {
		c.RecoveryWorkers = 4
	}
	if c.CacheMaintainInterval <= 0 {
		c.CacheMaintainInterval = time.Minute
	}
	if c.CacheEntryTTL <= 0 {
		c.CacheEntryTTL = 10 * time.Minute
	}
	return c
}

type cacheEntry struct {
	sender    common.Address
	expiresAt time.Time
}

// Manager recovers and caches transaction senders.
type Manager struct {
	cfg  Config
	pool *workerpool.WorkerPool

	mu    sync.RWMutex
	cache map[common.Hash]*cacheEntry

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewManager constructs a Manager and starts its background sweep
// goroutine; call Stop to shut it down.
func NewManager(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	m := &Manager{
		cfg:    cfg,
		pool:   workerpool.New(cfg.RecoveryWorkers),
		cache:  make(map[common.Hash]*cacheEntry),
		stopCh: make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Stop shuts down the worker pool and sweep goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.pool.StopWait()
	})
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.CacheMaintainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, entry := range m.cache {
		if now.After(entry.expiresAt) {
			delete(m.cache, hash)
		}
	}
}

// RecoverUnsignedTx recovers tx's sender from its signature, consulting
// (and populating) the sender cache first.
func (m *Manager) RecoverUnsignedTx(tx *types.SignedTransaction) (common.Address, error) {
	hash := tx.Hash()
	if sender, ok := m.lookupCache(hash); ok {
		tx.SetFrom(sender)
		return sender, nil
	}
	sender, err := recoverSender(tx)
	if err != nil {
		return common.Address{}, err
	}
	tx.SetFrom(sender)
	m.storeCache(hash, sender)
	return sender, nil
}

// RecoverUnsignedTxWithOrder recovers every transaction's sender in
// parallel via the shared worker pool, preserving the input order in the
// returned error slice (nil entries mean success).
func (m *Manager) RecoverUnsignedTxWithOrder(txs []*types.SignedTransaction) []error {
	errs := make([]error, len(txs))
	var wg sync.WaitGroup
	wg.Add(len(txs))
	for i, tx := range txs {
		i, tx := i, tx
		m.pool.Submit(func() {
			defer wg.Done()
			_, err := m.RecoverUnsignedTx(tx)
			errs[i] = err
		})
	}
	wg.Wait()
	return errs
}

// RecoverBlock recovers every transaction sender in block, logging (but
// not failing on) any individual recovery error — a block with an
// unrecoverable signature is a validity problem for the consensus layer to
// decide, not this manager.
func (m *Manager) RecoverBlock(block *types.Block) {
	errs := m.RecoverUnsignedTxWithOrder(block.Transactions)
	for i, err := range errs {
		if err != nil {
			log.Warn("failed to recover transaction sender", "block", block.Hash(), "index", i, "err", err)
		}
	}
}

// FindMissingTxIndicesEncoded reports, for a compact block's already
// reconstructed transactions plus its still-missing short IDs, which
// positions in the compact block remain unresolved. It does not mutate
// cb: reconstruction/backfill is the caller's responsibility.
func (m *Manager) FindMissingTxIndicesEncoded(cb *types.CompactBlock) []int {
	have := make(map[int]struct{}, len(cb.ReconstructedTxs))
	for i, tx := range cb.ReconstructedTxs {
		if tx != nil {
			have[i] = struct{}{}
		}
	}
	var missing []int
	for i := range cb.TxShortIDs {
		if _, ok := have[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

func (m *Manager) lookupCache(hash common.Hash) (common.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[hash]
	if !ok {
		return common.Address{}, false
	}
	entry.expiresAt = time.Now().Add(m.cfg.CacheEntryTTL)
	return entry.sender, true
}

func (m *Manager) storeCache(hash common.Hash, sender common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[hash] = &cacheEntry{sender: sender, expiresAt: time.Now().Add(m.cfg.CacheEntryTTL)}
}

// CacheLen reports the number of currently cached sender entries.
func (m *Manager) CacheLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

func recoverSender(tx *types.SignedTransaction) (common.Address, error) {
	sig := make([]byte, 65)
	r, s := tx.R.Bytes(), tx.S.Bytes()
	copy(sig[32-len(r):32], r)
	copy(sig[64-len(s):64], s)
	sig[64] = tx.V

	// The signature covers the transaction with its signature fields empty.
	unsigned := tx.TransactionWithSignature
	unsigned.V, unsigned.R, unsigned.S = 0, nil, nil
	pub, err := crypto.SigToPub(unsigned.Hash().Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
