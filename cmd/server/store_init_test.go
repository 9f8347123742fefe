// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/recommend/storage"
)

func TestOpenModelStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         config.StorageConfig
		wantBackend string
		wantNil     bool
		wantErr     bool
	}{
		{name: "none", cfg: config.StorageConfig{Backend: config.BackendNone}, wantNil: true},
		{name: "file", cfg: config.StorageConfig{Backend: config.BackendFile}, wantBackend: "file"},
		{name: "badger", cfg: config.StorageConfig{Backend: config.BackendBadger}, wantBackend: "badger"},
		{name: "unknown", cfg: config.StorageConfig{Backend: "s3"}, wantErr: true},
		{name: "redis unreachable", cfg: config.StorageConfig{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			cfg.Path = t.TempDir()

			store, err := openModelStore(context.Background(), &cfg, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("openModelStore() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openModelStore() error = %v", err)
			}
			if tt.wantNil {
				if store != nil {
					t.Error("openModelStore() should return nil for the none backend")
				}
				return
			}
			defer store.Close()

			if got := store.Backend().Name(); got != tt.wantBackend {
				t.Errorf("backend = %q, want %q", got, tt.wantBackend)
			}

			// An empty store is ready.
			if err := storeReadinessCheck(store, "fast_item_cf")(context.Background()); err != nil {
				t.Errorf("readiness check on empty store = %v, want nil", err)
			}
		})
	}
}

// downBackend fails every read and counts the calls that reach it.
type downBackend struct {
	gets atomic.Int32
}

func (*downBackend) Name() string { return "down" }
func (d *downBackend) Get(context.Context, string) ([]byte, error) {
	d.gets.Add(1)
	return nil, errors.New("connection refused")
}
func (*downBackend) Set(context.Context, string, []byte) error { return errors.New("connection refused") }
func (*downBackend) Close() error                              { return nil }

func TestStoreReadinessCheck_OpenBreaker(t *testing.T) {
	t.Parallel()

	backend := &downBackend{}
	breaker := storage.NewBreakerBackend(backend, storage.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1,
	}, zerolog.Nop())
	check := storeReadinessCheck(storage.NewStore(breaker, zerolog.Nop()), "fast_item_cf")
	ctx := context.Background()

	// The first failure reaches the backend and trips the breaker.
	if err := check(ctx); err == nil || errors.Is(err, errStoreBreakerOpen) {
		t.Fatalf("first check = %v, want the backend error", err)
	}
	if err := check(ctx); !errors.Is(err, errStoreBreakerOpen) {
		t.Errorf("second check = %v, want errStoreBreakerOpen", err)
	}
	if got := backend.gets.Load(); got != 1 {
		t.Errorf("backend reads = %d, want 1", got)
	}
}
