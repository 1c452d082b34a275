package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCacheObserverCountsByResult(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("test_cache", "hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("test_cache", "miss"))

	var obs CacheObserver
	obs.CacheHit("test_cache")
	obs.CacheHit("test_cache")
	obs.CacheMiss("test_cache")

	require.Equal(t, hits+2, testutil.ToFloat64(cacheLookups.WithLabelValues("test_cache", "hit")))
	require.Equal(t, misses+1, testutil.ToFloat64(cacheLookups.WithLabelValues("test_cache", "miss")))
}

func TestRecordDeduplicationIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(duplicatesRemoved)
	beforeUnresolved := testutil.ToFloat64(unresolvedDropped)

	RecordDeduplication(0, 0)
	require.Equal(t, before, testutil.ToFloat64(duplicatesRemoved))

	RecordDeduplication(3, 1)
	require.Equal(t, before+3, testutil.ToFloat64(duplicatesRemoved))
	require.Equal(t, beforeUnresolved+1, testutil.ToFloat64(unresolvedDropped))
}

func TestRecordReclassification(t *testing.T) {
	before := testutil.ToFloat64(reclassifications.WithLabelValues("failed"))
	RecordReclassification("failed")
	require.Equal(t, before+1, testutil.ToFloat64(reclassifications.WithLabelValues("failed")))
}

func TestObserveStoreQueryLabelsOutcome(t *testing.T) {
	ObserveStoreQuery("list_athletes_test", time.Now(), errors.New("boom"))
	require.Equal(t, 1, testutil.CollectAndCount(storeQueryDuration, "gran_fondo_store_query_duration_seconds"))
}

func TestRecordCacheFlush(t *testing.T) {
	ts := time.Unix(1757500000, 0)
	RecordCacheFlush(ts)
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastRefresh))
	RecordCacheFlush(time.Time{})
	require.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastRefresh))
}

func TestObserveStoreQueryRecordsLatency(t *testing.T) {
	ObserveStoreQuery("latency_probe", time.Now().Add(-2*time.Second), nil)

	observer, err := storeQueryDuration.GetMetricWithLabelValues("latency_probe", "ok")
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, observer.(prometheus.Metric).Write(&m))
	require.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	require.GreaterOrEqual(t, m.GetHistogram().GetSampleSum(), 2.0)
}
