// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package metrics defines the Prometheus instrumentation for Movierec.
// Metrics are registered on the default registry at init and exposed by the
// /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DuckDB CSV reads
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB table reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_duckdb_query_errors_total",
			Help: "Total number of failed DuckDB table reads",
		},
		[]string{"operation", "table"},
	)

	// Snapshot loading
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_snapshot_loads_total",
			Help: "Total number of snapshot load attempts",
		},
		[]string{"result"}, // "success", "error"
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_snapshot_load_duration_seconds",
			Help:    "Time to build a catalog snapshot",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot load",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_snapshot_items",
			Help: "Number of catalog items in the active snapshot",
		},
	)

	SnapshotInteractions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_snapshot_interactions",
			Help: "Number of interaction rows in the active snapshot",
		},
	)

	// DecodeResults counts list-valued field decodes by outcome.
	DecodeResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_field_decode_total",
			Help: "List-valued field decodes by stage that produced the result",
		},
		[]string{"stage"}, // "json", "literal", "empty"
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendations
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommend_requests_total",
			Help: "Recommendation requests by strategy served",
		},
		[]string{"strategy"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_duration_seconds",
			Help:    "Recommendation latency by strategy",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommend_fallbacks_total",
			Help: "Users with history served the popularity ranking",
		},
		[]string{"reason"}, // "unknown_user", "no_model"
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_recommend_cache_hits_total",
			Help: "Personalized result cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_recommend_cache_misses_total",
			Help: "Personalized result cache misses",
		},
	)

	ScoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_score_duration_seconds",
			Help:    "Scoring call latency",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"scorer"},
	)

	ScoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_score_errors_total",
			Help: "Failed scoring calls",
		},
		[]string{"scorer"},
	)

	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_model_info",
			Help: "Loaded factor model (value is the number of items it covers)",
		},
		[]string{"name", "version"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Summaries
	SummarizeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_summarize_requests_total",
			Help: "Review summary requests by result",
		},
		[]string{"result"}, // "cache_hit", "generated", "error"
	)

	SummarizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_summarize_duration_seconds",
			Help:    "Upstream summary generation latency",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// RecordDBQuery records a DuckDB table read.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordSnapshotLoad records the outcome of a snapshot build.
func RecordSnapshotLoad(duration time.Duration, items, interactions int, err error) {
	SnapshotLoadDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotLoads.WithLabelValues("error").Inc()
		return
	}
	SnapshotLoads.WithLabelValues("success").Inc()
	SnapshotLastSuccess.Set(float64(time.Now().Unix()))
	SnapshotItems.Set(float64(items))
	SnapshotInteractions.Set(float64(interactions))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a served recommendation.
func RecordRecommendation(strategy string, duration time.Duration) {
	RecommendRequests.WithLabelValues(strategy).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordScore records a scoring call against the named scorer.
func RecordScore(scorer string, duration time.Duration, err error) {
	ScoreDuration.WithLabelValues(scorer).Observe(duration.Seconds())
	if err != nil {
		ScoreErrors.WithLabelValues(scorer).Inc()
	}
}

// RecordCircuitBreakerTransition updates the state gauge and transition counter.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
