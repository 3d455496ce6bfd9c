package retrieval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeSemantic = "semantic"
	modeKeyword  = "keyword"

	outcomeOK             = "ok"
	outcomeDegraded       = "degraded"
	outcomeStoreError     = "store_error"
	outcomeEmbeddingError = "embedding_error"
)

var (
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casegraph_search_total",
		Help: "Total number of searches by mode and outcome",
	}, []string{"mode", "outcome"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "casegraph_search_duration_seconds",
		Help:    "Search latency including embedding",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
)

func observe(mode, outcome string, start time.Time) {
	searchTotal.WithLabelValues(mode, outcome).Inc()
	searchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
