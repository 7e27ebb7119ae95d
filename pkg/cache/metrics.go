package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssot_cache_hits_total",
			Help: "Total number of report cache hits",
		},
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssot_cache_misses_total",
			Help: "Total number of report cache misses",
		},
	)

	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ssot_cache_evictions_total",
			Help: "Total number of expired entries removed on read",
		},
	)

	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ssot_cache_entries",
			Help: "Current number of entries in the report cache",
		},
	)
)
