// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/itemsim/internal/metrics"
)

// RateBudget is a request allowance per client per window.
type RateBudget struct {
	Requests int
	Window   time.Duration
}

// ChiMiddlewareConfig configures CORS and rate limiting for NewRouter.
type ChiMiddlewareConfig struct {
	// CORSAllowedOrigins is empty by default, which rejects cross-origin
	// browser requests until origins are configured.
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	// RateLimitRequests per RateLimitWindow applies to the query endpoints.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// TrainRateLimit is stacked on the query budget for POST /train, which
	// rebuilds the whole model.
	TrainRateLimit RateBudget

	// HealthRateLimit replaces the query budget for probes.
	HealthRateLimit RateBudget

	// RateLimitKeyFunc identifies a client. Default: remote IP.
	RateLimitKeyFunc httprate.KeyFunc
}

// DefaultChiMiddlewareConfig returns the production defaults.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		TrainRateLimit:    RateBudget{Requests: 5, Window: time.Minute},
		HealthRateLimit:   RateBudget{Requests: 1000, Window: time.Minute},
	}
}

// ChiMiddleware builds the per-route middleware from one config.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware uses DefaultChiMiddlewareConfig when config is nil.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	return &ChiMiddleware{
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: config.CORSAllowedOrigins,
			AllowedMethods: config.CORSAllowedMethods,
			AllowedHeaders: config.CORSAllowedHeaders,
			ExposedHeaders: config.CORSExposedHeaders,
			MaxAge:         config.CORSMaxAge,
		}),
	}
}

// CORS handles preflight and cross-origin headers. Install it globally so
// OPTIONS requests reach it before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits the query endpoints.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(RateBudget{Requests: m.config.RateLimitRequests, Window: m.config.RateLimitWindow})
}

// RateLimitTrain limits POST /api/v1/train.
func (m *ChiMiddleware) RateLimitTrain() func(http.Handler) http.Handler {
	return m.limit(m.config.TrainRateLimit)
}

// RateLimitHealth limits the health probes.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.limit(m.config.HealthRateLimit)
}

func (m *ChiMiddleware) limit(budget RateBudget) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || budget.Requests <= 0 || budget.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	return httprate.Limit(
		budget.Requests,
		budget.Window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// rateLimitExceeded writes the JSON 429 and counts the hit by route pattern.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		endpoint = rctx.RoutePattern()
	}
	metrics.RecordRateLimitHit(endpoint)
	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
}

// APISecurityHeaders sets nosniff, frame denial and a referrer policy on
// every response, plus HSTS when the request arrived over HTTPS.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
