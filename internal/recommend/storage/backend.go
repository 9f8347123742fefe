// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by backends when a key does not exist.
var ErrNotFound = errors.New("model not found")

// Backend is a byte-oriented key-value store for encoded models.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value atomically.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources.
	Close() error
}
