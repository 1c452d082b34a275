// Package observability holds the Prometheus collectors of the competition engine.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gran_fondo",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Read-through cache lookups by cache and result.",
	}, []string{"cache", "result"})
	duplicatesRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gran_fondo",
		Subsystem: "records",
		Name:      "zone_duplicates_removed_total",
		Help:      "Heart-rate-zone records dropped because an earlier record shared the activity id.",
	})
	unresolvedDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gran_fondo",
		Subsystem: "records",
		Name:      "zone_unresolved_dropped_total",
		Help:      "Heart-rate-zone records dropped because no athlete could be joined.",
	})
	storeQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gran_fondo",
		Subsystem: "store",
		Name:      "query_duration_seconds",
		Help:      "Latency of store queries by query and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query", "outcome"})
	reclassifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gran_fondo",
		Subsystem: "reclassify",
		Name:      "updates_total",
		Help:      "Sport type reclassification attempts by outcome.",
	}, []string{"outcome"})
	lastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gran_fondo",
		Subsystem: "cache",
		Name:      "last_flush_timestamp_seconds",
		Help:      "Unix timestamp of the most recent manual cache flush.",
	})
)

func init() {
	prometheus.MustRegister(cacheLookups, duplicatesRemoved, unresolvedDropped, storeQueryDuration, reclassifications, lastRefresh)
}

// CacheObserver reports read-through cache lookups to Prometheus.
type CacheObserver struct{}

// CacheHit counts a cache hit.
func (CacheObserver) CacheHit(name string) {
	cacheLookups.WithLabelValues(name, "hit").Inc()
}

// CacheMiss counts a cache miss.
func (CacheObserver) CacheMiss(name string) {
	cacheLookups.WithLabelValues(name, "miss").Inc()
}

// RecordDeduplication counts records removed by a deduplication pass.
func RecordDeduplication(duplicates, unresolved int) {
	if duplicates > 0 {
		duplicatesRemoved.Add(float64(duplicates))
	}
	if unresolved > 0 {
		unresolvedDropped.Add(float64(unresolved))
	}
}

// ObserveStoreQuery records how long a store query took.
func ObserveStoreQuery(query string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeQueryDuration.WithLabelValues(query, outcome).Observe(time.Since(started).Seconds())
}

// RecordReclassification counts one reclassification outcome, "updated" or
// "failed".
func RecordReclassification(outcome string) {
	reclassifications.WithLabelValues(outcome).Inc()
}

// RecordCacheFlush updates the manual flush watermark.
func RecordCacheFlush(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastRefresh.Set(float64(ts.Unix()))
}
