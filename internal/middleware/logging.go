// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/logging"
)

// DefaultSlowRequestThreshold is the duration above which a request is
// logged at warn level.
const DefaultSlowRequestThreshold = time.Second

// RequestLogger logs one line per completed request. Requests slower than
// slow are logged at warn level, server errors at error level and the rest
// at debug level. It must run after RequestID so the IDs are in context.
func RequestLogger(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			var event *zerolog.Event
			switch {
			case sw.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case duration > slow:
				event = logger.Warn().Bool("slow", true)
			default:
				event = logger.Debug()
			}

			event.
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", sw.statusCode).
				Int("bytes", sw.bytes).
				Int64("duration_ms", duration.Milliseconds()).
				Msg("request completed")
		})
	}
}
