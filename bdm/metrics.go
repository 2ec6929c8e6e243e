package bdm

import "github.com/ethereum/go-ethereum/metrics"

// metricsSet groups the gauges/timers/meters the manager registers,
// mirroring the package-scope metric vars core/blockchain.go declares
// (headBlockGauge, blockInsertTimer, ...) but collected under one struct
// so they can be wired to a per-instance registry instead of the global
// default (useful for tests constructing multiple managers).
type metricsSet struct {
	cacheSizeGauge   metrics.Gauge
	cachedBlockGauge metrics.Gauge
	gcTimer          metrics.Timer
	evictionMeter    metrics.Meter
	txCacheGauge     metrics.Gauge
}

func newMetricsSet(registry metrics.Registry) *metricsSet {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &metricsSet{
		cacheSizeGauge:   metrics.NewRegisteredGauge("bdm/cache/size", registry),
		cachedBlockGauge: metrics.NewRegisteredGauge("bdm/cache/blocks", registry),
		gcTimer:          metrics.NewRegisteredTimer("bdm/gc/duration", registry),
		evictionMeter:    metrics.NewRegisteredMeter("bdm/cache/evictions", registry),
		txCacheGauge:     metrics.NewRegisteredGauge("bdm/txdata/cache_size", registry),
	}
}
