// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	grabsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tlgrab_grabs_total",
		Help: "Total number of grab runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	grabFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tlgrab_grab_failures_total",
		Help: "Total number of grab failures by stage",
	}, []string{"stage"}) // stage=channels|broadcasts|write|load

	grabDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tlgrab_grab_duration_seconds",
		Help:    "Wall time of a complete grab",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	})

	lastGrabTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tlgrab_last_grab_timestamp_seconds",
		Help: "Unix time of the last successful grab",
	})

	broadcastsFetched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tlgrab_broadcasts_fetched",
		Help: "Distinct broadcasts retrieved in the last grab",
	})

	channelsWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tlgrab_xmltv_channels_written",
		Help: "Number of channels written to XMLTV in the last grab",
	})

	programmesWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tlgrab_xmltv_programmes_written",
		Help: "Number of programmes written to XMLTV in the last grab",
	})

	enrichFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tlgrab_enrich_failures_total",
		Help: "Program detail fetches that failed and were replaced by an empty program",
	})

	entriesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tlgrab_entries_dropped_total",
		Help: "Broadcasts left out of the document by reason",
	}, []string{"reason"}) // reason=unusable|untitled

	storeRowsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tlgrab_store_rows_loaded",
		Help: "Programme rows inserted by the last database load",
	})
)

// RecordGrabSuccess publishes the counters of a completed grab.
func RecordGrabSuccess(d time.Duration, broadcasts, channels, programmes int) {
	grabsTotal.WithLabelValues("success").Inc()
	grabDuration.Observe(d.Seconds())
	lastGrabTimestamp.SetToCurrentTime()
	broadcastsFetched.Set(float64(broadcasts))
	channelsWritten.Set(float64(channels))
	programmesWritten.Set(float64(programmes))
}

// RecordGrabFailure counts a failed grab at the given stage.
func RecordGrabFailure(stage string) {
	grabsTotal.WithLabelValues("failure").Inc()
	grabFailuresTotal.WithLabelValues(stage).Inc()
}

// IncEnrichFailure counts one failed program fetch.
func IncEnrichFailure() { enrichFailuresTotal.Inc() }

// AddDropped counts n entries dropped for reason.
func AddDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	entriesDroppedTotal.WithLabelValues(reason).Add(float64(n))
}

// SetStoreRows records the size of the last database load.
func SetStoreRows(n int) { storeRowsLoaded.Set(float64(n)) }
