// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/itemsim/internal/api"
	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/recommend/storage"
)

// redisConnectTimeout bounds the initial Redis ping.
const redisConnectTimeout = 5 * time.Second

// errStoreBreakerOpen fails readiness while the store breaker rejects calls.
var errStoreBreakerOpen = errors.New("model store circuit breaker open")

// openModelStore builds the configured model store. It returns nil for the
// "none" backend, which disables persistence.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func openModelStore(ctx context.Context, cfg *config.StorageConfig, logger zerolog.Logger) (*storage.Store, error) {
	var backend storage.Backend

	switch cfg.Backend {
	case config.BackendNone:
		logger.Warn().Msg("model persistence disabled (STORAGE_BACKEND=none)")
		return nil, nil

	case config.BackendFile:
		b, err := storage.NewFileBackend(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		backend = b

	case config.BackendBadger:
		b, err := storage.NewBadgerBackend(cfg.Path, cfg.SyncWrites)
		if err != nil {
			return nil, fmt.Errorf("open badger backend: %w", err)
		}
		backend = b

	case config.BackendRedis:
		connectCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		b, err := storage.NewRedisBackend(connectCtx, storage.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		backend = b
		if cfg.Breaker.Enabled {
			backend = storage.NewBreakerBackend(b, storage.BreakerConfig{
				MaxRequests:      cfg.Breaker.MaxRequests,
				Interval:         cfg.Breaker.Interval,
				Timeout:          cfg.Breaker.Timeout,
				FailureThreshold: cfg.Breaker.FailureThreshold,
			}, logger)
		}

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	logger.Info().
		Str("backend", backend.Name()).
		Str("path", cfg.Path).
		Msg("model store opened")

	return storage.NewStore(backend, logger), nil
}

// storeReadinessCheck reports the store ready when its metadata can be read.
// A store with no model yet is ready. An open breaker fails the check
// without touching the backend.
func storeReadinessCheck(store *storage.Store, modelName string) api.HealthCheck {
	breaker, _ := store.Backend().(*storage.BreakerBackend)
	return func(ctx context.Context) error {
		if breaker != nil && breaker.State() == gobreaker.StateOpen {
			return errStoreBreakerOpen
		}
		if _, err := store.Metadata(ctx, modelName); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return nil
	}
}
