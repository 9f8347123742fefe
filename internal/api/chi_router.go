// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/itemsim/internal/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig

	// SlowRequestThreshold is the latency above which requests are logged
	// at warn level.
	SlowRequestThreshold time.Duration
}

// NewRouter configures all HTTP routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mw := NewChiMiddleware(cfg.Middleware)

	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(cfg.SlowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(mw.CORS()) // must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeRouteNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// ========================
	// Similarity API
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)

		r.With(mw.RateLimitTrain()).Post("/api/v1/train", h.Train)
		r.Get("/api/v1/recommend", h.Recommend)
		r.Post("/api/v1/score_items", h.ScoreItems)
		r.Get("/api/v1/status", h.Status)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
