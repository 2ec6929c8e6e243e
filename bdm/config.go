// Package bdm is the Block Data Manager core: it composes the store,
// cachemgr, invalidset, gcprogress, txdata and availability packages the
// way core.BlockChain composes core.HeaderChain in the teacher, exposing
// one cohesive per-family get/insert surface plus the lifecycle and GC
// operations spec.md §4.G names.
package bdm

import "time"

// Config is the BDM's TOML-tagged configuration struct, loaded/overridden
// the way mive/miveconfig.Config is.
type Config struct {
	// DBType selects the durable-store backend: "kv" (leveldbstore) or
	// "sql" (sqlstore).
	DBType string `toml:"db_type"`
	// DBPath is the directory (kv) or file (sql) the backend opens.
	DBPath string `toml:"db_path"`
	// DBCacheMB sizes the leveldbstore block cache.
	DBCacheMB int `toml:"db_cache_mb"`

	// CachePreferredSize and CacheMaxSize bound the cachemgr.Tracker's
	// byte budget.
	CachePreferredSize uint64 `toml:"cache_preferred_size"`
	CacheMaxSize       uint64 `toml:"cache_max_size"`

	// InvalidBlockSetCapacity bounds the invalidset.Set.
	InvalidBlockSetCapacity int `toml:"invalid_block_set_capacity"`

	// TxRecoveryWorkers sizes the txdata.Manager's worker pool.
	TxRecoveryWorkers int `toml:"tx_recovery_workers"`
	// TxCacheIndexMaintainTimeout is how long a recovered sender stays
	// cached, and how often the sweep goroutine runs.
	TxCacheIndexMaintainTimeout time.Duration `toml:"tx_cache_index_maintain_timeout"`

	// CheckpointGCTimeInEpochCount bounds the gcprogress.Tracker's
	// throttle.
	CheckpointGCTimeInEpochCount uint64 `toml:"checkpoint_gc_time_in_epoch_count"`

	// AdditionalMaintainedBodyEpochCount, AdditionalMaintainedExecutionResultEpochCount,
	// AdditionalMaintainedRewardEpochCount, AdditionalMaintainedTraceEpochCount and
	// AdditionalMaintainedTransactionIndexEpochCount independently extend how many
	// epochs beyond the GC cutoff each family is kept for, per spec.md §6 —
	// a family with a larger count is retained longer than one with a
	// smaller count, even within the same database GC pass.
	AdditionalMaintainedBodyEpochCount            uint64 `toml:"additional_maintained_body_epoch_count"`
	AdditionalMaintainedExecutionResultEpochCount uint64 `toml:"additional_maintained_execution_result_epoch_count"`
	AdditionalMaintainedRewardEpochCount          uint64 `toml:"additional_maintained_reward_epoch_count"`
	AdditionalMaintainedTraceEpochCount           uint64 `toml:"additional_maintained_trace_epoch_count"`
	AdditionalMaintainedTransactionIndexEpochCount uint64 `toml:"additional_maintained_transaction_index_epoch_count"`
}

// DefaultConfig returns a Config with the same kind of sane defaults
// mive/miveconfig.Config's constructor applies.
func DefaultConfig() Config {
	return Config{
		DBType:                       "kv",
		DBPath:                       "bdm-data",
		DBCacheMB:                    128,
		CachePreferredSize:           256 << 20,
		CacheMaxSize:                 320 << 20,
		InvalidBlockSetCapacity:      1 << 16,
		TxRecoveryWorkers:            4,
		TxCacheIndexMaintainTimeout:  10 * time.Minute,
		CheckpointGCTimeInEpochCount: 5000,
	}
}
