// Smart Grocer - Predictive Grocery Shopping Demo
// Copyright 2025 Smart Grocer Authors
// SPDX-License-Identifier: MIT
// https://github.com/abreschi/kumoai-hackathon-2025

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - RFM predictive query latency and fallback rates
// - Circuit breaker state around the RFM client
// - LLM catalog generation batches
// - DuckDB dataset store query performance
// - API endpoint latency and throughput

var (
	// RFM Service Metrics
	RFMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rfm_request_duration_seconds",
			Help:    "Duration of RFM predictive queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"}, // "sum", "rank"
	)

	RFMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfm_requests_total",
			Help: "Total number of RFM predictive queries",
		},
		[]string{"query_type", "result"}, // result: "success", "failure"
	)

	// PredictionFallbacks counts operations answered by rule-based
	// heuristics instead of the RFM service.
	PredictionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_fallbacks_total",
			Help: "Total number of predictions served by rule-based fallbacks",
		},
		[]string{"operation"}, // "cart", "recommendations", "delivery_times", "rank"
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of prediction operations served",
		},
		[]string{"operation", "source"}, // source: "rfm", "fallback"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// LLM Catalog Generation Metrics
	LLMBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_batch_duration_seconds",
			Help:    "Duration of LLM product catalog batch requests in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	LLMBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_batches_total",
			Help: "Total number of LLM catalog batches",
		},
		[]string{"category", "result"}, // result: "success", "failure", "fallback"
	)

	LLMProductsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_products_generated_total",
			Help: "Total number of products produced by the LLM",
		},
	)

	// Dataset Store Metrics (DuckDB)
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of dataset store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of dataset store query errors",
		},
		[]string{"operation"},
	)

	StoreRowsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_rows_loaded",
			Help: "Number of rows loaded per dataset table",
		},
		[]string{"table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Application Metrics
	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordRFMRequest records an RFM query metric.
func RecordRFMRequest(queryType string, duration time.Duration, err error) {
	RFMRequestDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	RFMRequestsTotal.WithLabelValues(queryType, result).Inc()
}

// RecordPrediction records a served prediction and its source.
func RecordPrediction(operation string, fallback bool) {
	source := "rfm"
	if fallback {
		source = "fallback"
		PredictionFallbacks.WithLabelValues(operation).Inc()
	}
	PredictionsTotal.WithLabelValues(operation, source).Inc()
}

// RecordLLMBatch records a catalog batch outcome.
func RecordLLMBatch(category, result string, duration time.Duration, products int) {
	LLMBatchDuration.Observe(duration.Seconds())
	LLMBatchesTotal.WithLabelValues(category, result).Inc()
	if products > 0 {
		LLMProductsGenerated.Add(float64(products))
	}
}

// RecordStoreQuery records a dataset store query metric.
func RecordStoreQuery(operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
