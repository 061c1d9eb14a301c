// SPDX-License-Identifier: MIT
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramSamples(t *testing.T, h prometheus.Histogram) (uint64, float64) {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, h.Write(metric))
	return metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum()
}

func TestRecordGrabSuccess(t *testing.T) {
	before := testutil.ToFloat64(grabsTotal.WithLabelValues("success"))
	count, sum := histogramSamples(t, grabDuration)
	RecordGrabSuccess(3*time.Second, 12, 2, 10)

	gotCount, gotSum := histogramSamples(t, grabDuration)
	assert.Equal(t, count+1, gotCount)
	assert.InDelta(t, sum+3, gotSum, 1e-9)

	assert.Equal(t, before+1, testutil.ToFloat64(grabsTotal.WithLabelValues("success")))
	assert.Equal(t, 12.0, testutil.ToFloat64(broadcastsFetched))
	assert.Equal(t, 2.0, testutil.ToFloat64(channelsWritten))
	assert.Equal(t, 10.0, testutil.ToFloat64(programmesWritten))
	assert.Greater(t, testutil.ToFloat64(lastGrabTimestamp), 0.0)
}

func TestRecordGrabFailure(t *testing.T) {
	before := testutil.ToFloat64(grabFailuresTotal.WithLabelValues("broadcasts"))
	RecordGrabFailure("broadcasts")
	assert.Equal(t, before+1, testutil.ToFloat64(grabFailuresTotal.WithLabelValues("broadcasts")))
}

func TestAddDroppedIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(entriesDroppedTotal.WithLabelValues("untitled"))
	AddDropped("untitled", 0)
	AddDropped("untitled", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(entriesDroppedTotal.WithLabelValues("untitled")))
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("miss"))
	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("miss")))
}
