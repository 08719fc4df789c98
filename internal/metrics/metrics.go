// Package metrics defines the Prometheus collectors exported by the routing core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes recorded by ObserveSearch.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCacheHit = "cache_hit"
)

// Routing groups the collectors for route search and the route cache. A nil
// *Routing is valid and records nothing.
type Routing struct {
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheEntries   prometheus.Gauge
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	pathsReturned  prometheus.Histogram
}

// NewRouting creates the collectors and registers them with reg.
func NewRouting(reg prometheus.Registerer) (*Routing, error) {
	m := &Routing{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starroute_cache_hits_total",
			Help: "Route cache lookups that found an entry.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starroute_cache_misses_total",
			Help: "Route cache lookups that found nothing.",
		}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starroute_cache_evictions_total",
			Help: "Entries evicted from the route cache to make room.",
		}),
		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "starroute_cache_entries",
			Help: "Entries currently held by the route cache.",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "starroute_searches_total",
			Help: "Route searches by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "starroute_search_duration_seconds",
			Help:    "Route search latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		pathsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "starroute_search_paths",
			Help:    "Ranked paths returned per successful search.",
			Buckets: []float64{1, 2, 3, 5, 10, 20},
		}),
	}

	collectors := []prometheus.Collector{
		m.cacheHits, m.cacheMisses, m.cacheEvictions, m.cacheEntries,
		m.searches, m.searchDuration, m.pathsReturned,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CacheLookup records a cache hit or miss.
func (m *Routing) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// CacheEviction records one evicted entry.
func (m *Routing) CacheEviction() {
	if m == nil {
		return
	}
	m.cacheEvictions.Inc()
}

// CacheSize publishes the current entry count.
func (m *Routing) CacheSize(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}

// ObserveSearch records one completed search.
func (m *Routing) ObserveSearch(outcome string, elapsed time.Duration, paths int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
	if outcome != OutcomeFailure {
		m.pathsReturned.Observe(float64(paths))
	}
}
