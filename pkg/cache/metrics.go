package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks token store hits by backend (redis, memory)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_cache_hits_total",
			Help: "Total number of token store hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks token store misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_cache_misses_total",
			Help: "Total number of token store misses",
		},
	)

	// CacheDegraded tracks operations absorbed because the backend was unreachable
	CacheDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_cache_degraded_total",
			Help: "Total number of store operations degraded to miss/no-op due to backend errors",
		},
		[]string{"operation"}, // "get", "set"
	)
)
