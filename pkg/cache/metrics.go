package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_hits_total",
		Help: "Lookups answered by a settled entry",
	}, []string{"cache"})
	shared = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_shared_total",
		Help: "Lookups that attached to an in-flight entry",
	}, []string{"cache"})
	misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_misses_total",
		Help: "Lookups that started a producer",
	}, []string{"cache"})
	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_failures_total",
		Help: "Producer runs that failed and were dropped",
	}, []string{"cache"})
	evictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_evictions_total",
		Help: "Entries removed to stay within capacity",
	}, []string{"cache"})
	seeds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_seeds_total",
		Help: "Entries populated without a producer",
	}, []string{"cache"})
	entries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storefront_cache_entries",
		Help: "Current number of entries",
	}, []string{"cache"})
)
