// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered on the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics (fed by middleware.PrometheusMetrics):
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Model Metrics:
  - itemsim_fit_duration_seconds
  - itemsim_fit_total{result}
  - itemsim_model_items, itemsim_model_features, itemsim_model_version
  - itemsim_query_duration_seconds{operation}
  - itemsim_query_errors_total{operation,code}
  - itemsim_model_persist_total{backend,op,result}
  - itemsim_model_persist_bytes{backend}

Resilience Metrics:
  - circuit_breaker_state{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}
  - supervisor_service_restarts_total{service}

# Usage Example

	start := time.Now()
	_, err := engine.Fit(ctx, frame, topK)
	result := "success"
	if err != nil {
	    result = recommend.ErrorCode(err)
	}
	metrics.RecordFit(time.Since(start), result)
*/
package metrics
