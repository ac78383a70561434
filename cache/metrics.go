package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for a Cache.
type Metrics struct {
	Hits       prometheus.Counter
	Misses     prometheus.Counter
	LoadErrors prometheus.Counter
	Evictions  prometheus.Counter
}

// NewMetrics creates the cache metrics and registers them with reg, if
// one is given.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bak_cache_hits_total",
		Help: "Total archive loads served from the cache",
	})

	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bak_cache_misses_total",
		Help: "Total archive loads not found in the cache",
	})

	loadErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bak_cache_load_errors_total",
		Help: "Total archive loads that failed to decode",
	})

	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bak_cache_evictions_total",
		Help: "Total decoded archives evicted from the cache",
	})

	if reg != nil {
		reg.MustRegister(hits, misses, loadErrors, evictions)
	}

	return &Metrics{
		Hits:       hits,
		Misses:     misses,
		LoadErrors: loadErrors,
		Evictions:  evictions,
	}
}
