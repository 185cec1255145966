package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportbot_queries_total",
			Help: "Total number of retrievals by result kind",
		},
		[]string{"kind"},
	)

	OrderLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supportbot_order_lookup_duration_seconds",
			Help:    "Duration of order status lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supportbot_cache_hits_total",
			Help: "Result cache hits by backend",
		},
		[]string{"backend"},
	)

	ResponderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "supportbot_responder_fallbacks_total",
			Help: "Answers rendered from templates after the language model failed",
		},
	)
)
