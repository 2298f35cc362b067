package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"route", "status"},
	)

	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikeshare_http_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bikeshare_records_loaded",
			Help: "Rows held for each dataset after the last load",
		},
		[]string{"dataset"},
	)

	QualityFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_quality_flags_total",
			Help: "Rows flagged by validation during loads",
		},
		[]string{"dataset", "flag"},
	)

	ReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_reloads_total",
			Help: "Dataset load attempts by result",
		},
		[]string{"dataset", "result"},
	)

	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_insight_requests_total",
			Help: "Insight summaries by outcome",
		},
		[]string{"outcome"},
	)
)
