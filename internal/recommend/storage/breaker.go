// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/itemsim/internal/metrics"
)

// BreakerConfig configures the circuit breaker around a remote backend.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed when half-open.
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns conservative defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerBackend wraps a Backend with a circuit breaker so an unavailable
// remote store fails fast instead of stalling training or startup.
// ErrNotFound counts as success.
type BreakerBackend struct {
	next Backend
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerBackend wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerBackend(next Backend, cfg BreakerConfig, logger zerolog.Logger) *BreakerBackend {
	settings := gobreaker.Settings{
		Name:        "model-store-" + next.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("model store circuit breaker state changed")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerBackend{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Name implements Backend.
func (b *BreakerBackend) Name() string { return b.next.Name() }

// State returns the breaker state.
func (b *BreakerBackend) State() gobreaker.State {
	return b.cb.State()
}

// Get implements Backend.
func (b *BreakerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

// Set implements Backend.
func (b *BreakerBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Set(ctx, key, value)
	})
	return err
}

// Close implements Backend.
func (b *BreakerBackend) Close() error {
	return b.next.Close()
}
