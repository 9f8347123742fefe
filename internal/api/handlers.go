// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"time"

	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/training"
)

// Trainer runs a training job. *training.Trainer implements it.
type Trainer interface {
	Train(ctx context.Context, csvPath string, topK int) (*training.Result, error)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// HandlerConfig configures request defaults and limits.
type HandlerConfig struct {
	// DefaultTopN is used when a recommend request omits top_n.
	DefaultTopN int

	// MaxTopN caps top_n on recommend requests.
	MaxTopN int

	// TrainTimeout bounds a training request. Training continues if the
	// client disconnects.
	TrainTimeout time.Duration

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64
}

// DefaultHandlerConfig returns the default handler configuration.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultTopN:  10,
		MaxTopN:      1000,
		TrainTimeout: 30 * time.Minute,
		MaxBodyBytes: 1 << 20,
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: train, recommend, score_items, status
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	engine    *recommend.Engine
	trainer   Trainer
	config    HandlerConfig
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewHandler creates a new API handler. Zero config fields take defaults.
func NewHandler(engine *recommend.Engine, trainer Trainer, cfg HandlerConfig) *Handler {
	def := DefaultHandlerConfig()
	if cfg.DefaultTopN < 1 {
		cfg.DefaultTopN = def.DefaultTopN
	}
	if cfg.MaxTopN < 1 {
		cfg.MaxTopN = def.MaxTopN
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = def.TrainTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}

	return &Handler{
		engine:    engine,
		trainer:   trainer,
		config:    cfg,
		checks:    make(map[string]HealthCheck),
		startTime: time.Now(),
	}
}

// AddReadinessCheck registers a dependency check for /health/ready. It must
// be called before the handler serves requests.
func (h *Handler) AddReadinessCheck(name string, check HealthCheck) {
	h.checks[name] = check
}
