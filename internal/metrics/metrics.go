package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis Metrics
var (
	// LinesScored counts scored lines and comments by sentiment label
	LinesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_lines_scored_total",
			Help: "Total scored lines and comments by sentiment label",
		},
		[]string{"label"},
	)

	// RequestsTotal counts analysis requests by endpoint and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_requests_total",
			Help: "Total analysis requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// AnalysisDuration tracks time spent scoring a request in seconds
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_analysis_duration_seconds",
			Help:    "Time spent scoring a request in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)
)

// Cache and Journal Metrics
var (
	// CacheLookups counts polarity cache lookups by result (hit/miss/error)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_lookups_total",
			Help: "Polarity cache lookups by result",
		},
		[]string{"result"},
	)

	// UploadJournalWrites counts journal records written by status
	UploadJournalWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_journal_writes_total",
			Help: "Upload journal records by write status",
		},
		[]string{"status"},
	)

	// CacheHealthy is 1 while the polarity cache answers health probes
	CacheHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_cache_healthy",
			Help: "Whether the polarity cache passed its last health probe (1 = healthy)",
		},
	)
)

// ObserveCacheLookup matches sentiment.CacheObserver.
func ObserveCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}
