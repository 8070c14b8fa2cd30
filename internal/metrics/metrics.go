// Package metrics holds the Prometheus collectors shared by the pipeline and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AcquisitionsTotal counts finished acquisitions by source kind, strategy and outcome.
	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summify_acquisitions_total",
			Help: "Total number of content acquisitions",
		},
		[]string{"kind", "strategy", "outcome"},
	)

	// AcquisitionFallbacksTotal counts transcript failures that switched to the metadata path.
	AcquisitionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summify_acquisition_fallbacks_total",
			Help: "Total number of transcript failures recovered by the metadata fallback",
		},
	)

	// SummariesTotal counts model requests by provider and outcome.
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summify_summaries_total",
			Help: "Total number of summarization requests",
		},
		[]string{"provider", "outcome"},
	)

	// PipelineDuration measures a whole run from validation to summary.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summify_pipeline_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summify_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RateLimitedTotal counts summarize requests rejected by the per-client limiter.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summify_rate_limited_total",
			Help: "Total number of rate limited summarize requests",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
