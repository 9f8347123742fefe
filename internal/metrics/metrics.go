// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Model Training Metrics
	FitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itemsim_fit_duration_seconds",
			Help:    "Duration of model training in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	FitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemsim_fit_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // "success", or an error code such as "SCHEMA"
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemsim_model_items",
			Help: "Number of items in the serving model",
		},
	)

	ModelFeatures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemsim_model_features",
			Help: "Width of the serving model's feature space",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemsim_model_version",
			Help: "Version counter of the serving model",
		},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itemsim_query_duration_seconds",
			Help:    "Duration of similarity queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"}, // "recommend", "score_items"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemsim_query_errors_total",
			Help: "Total number of failed similarity queries",
		},
		[]string{"operation", "code"},
	)

	// Model Persistence Metrics
	ModelPersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemsim_model_persist_total",
			Help: "Total number of model store operations",
		},
		[]string{"backend", "op", "result"}, // op: "save", "load"; result: "success", "not_found", "stale", "error"
	)

	ModelPersistBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itemsim_model_persist_bytes",
			Help: "Compressed size of the last saved model",
		},
		[]string{"backend"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Supervisor Metrics
	ServiceRestarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supervisor_service_restarts_total",
			Help: "Total number of supervised service restarts",
		},
		[]string{"service"},
	)
)

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

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordFit records a training run. result is "success" or an error code.
func RecordFit(duration time.Duration, result string) {
	FitDuration.Observe(duration.Seconds())
	FitTotal.WithLabelValues(result).Inc()
}

// SetModelInfo updates the serving model gauges.
func SetModelInfo(items, features, version int) {
	ModelItems.Set(float64(items))
	ModelFeatures.Set(float64(features))
	ModelVersion.Set(float64(version))
}

// RecordQuery records a similarity query. code is empty on success.
func RecordQuery(operation string, duration time.Duration, code string) {
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if code != "" {
		QueryErrors.WithLabelValues(operation, code).Inc()
	}
}

// RecordModelPersist records a model store operation.
func RecordModelPersist(backend, op, result string) {
	ModelPersistTotal.WithLabelValues(backend, op, result).Inc()
}

// SetModelPersistBytes records the size of the last saved model.
func SetModelPersistBytes(backend string, size int64) {
	ModelPersistBytes.WithLabelValues(backend).Set(float64(size))
}

// RecordCircuitBreakerTransition records a breaker state change. States use
// gobreaker's names: "closed", "half-open", "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordServiceRestart records a supervisor restart of service.
func RecordServiceRestart(service string) {
	ServiceRestarts.WithLabelValues(service).Inc()
}

// EngineStats is a point-in-time read of the engine's own counters.
type EngineStats struct {
	Requests       int64
	Errors         int64
	Trainings      int64
	LastTrainingMS int64
}

var (
	engineRequestsDesc = prometheus.NewDesc("itemsim_engine_requests_total",
		"Similarity and scoring queries handled by the engine", nil, nil)
	engineErrorsDesc = prometheus.NewDesc("itemsim_engine_errors_total",
		"Engine queries and fits that returned an error", nil, nil)
	engineTrainingsDesc = prometheus.NewDesc("itemsim_engine_trainings_total",
		"Models published by the engine", nil, nil)
	engineLastTrainingDesc = prometheus.NewDesc("itemsim_engine_last_training_seconds",
		"Duration of the last successful fit", nil, nil)
)

// engineCollector reads EngineStats at scrape time.
type engineCollector struct {
	stats func() EngineStats
}

func (c engineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- engineRequestsDesc
	ch <- engineErrorsDesc
	ch <- engineTrainingsDesc
	ch <- engineLastTrainingDesc
}

func (c engineCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(engineRequestsDesc, prometheus.CounterValue, float64(s.Requests))
	ch <- prometheus.MustNewConstMetric(engineErrorsDesc, prometheus.CounterValue, float64(s.Errors))
	ch <- prometheus.MustNewConstMetric(engineTrainingsDesc, prometheus.CounterValue, float64(s.Trainings))
	ch <- prometheus.MustNewConstMetric(engineLastTrainingDesc, prometheus.GaugeValue, float64(s.LastTrainingMS)/1000)
}

// RegisterEngineStats exposes the engine counters returned by stats on reg.
// stats is called on every scrape.
func RegisterEngineStats(reg prometheus.Registerer, stats func() EngineStats) error {
	return reg.Register(engineCollector{stats: stats})
}
