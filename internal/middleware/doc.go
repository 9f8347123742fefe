// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package middleware provides HTTP middleware components for the API server.

All middleware uses the chi signature func(http.Handler) http.Handler and is
installed on the router in internal/api.

Key Components:

  - RequestID: request and correlation IDs for log tracing
  - RequestLogger: one structured log line per request, slow requests at warn
  - PrometheusMetrics: request count, latency and in-flight gauges
  - Compression: gzip or deflate for JSON responses (chi Compress)

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

PrometheusMetrics and RequestLogger label requests with the chi route
pattern (for example /api/v1/recommend), not the raw path, so item IDs and
query strings never reach metric labels.

Request IDs:

An X-Request-ID header from an upstream proxy is reused when it is 1 to 128
printable ASCII characters; otherwise a UUID is generated. The ID is echoed
in the response and available to handlers:

	logging.Ctx(r.Context()).Info().Msg("training started")

See Also:

  - internal/logging: context IDs and logger
  - internal/metrics: Prometheus metric definitions
*/
package middleware
