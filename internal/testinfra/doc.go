// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// so remote model store backends are exercised against real services.
//
// # Redis Container
//
// The RedisContainer provides a real Redis instance for the Redis model backend:
//
//	func TestRedisBackend(t *testing.T) {
//	    rc := testinfra.StartRedis(t) // skips without Docker, terminates on cleanup
//
//	    backend, err := storage.NewRedisBackend(ctx, storage.RedisOptions{Addr: rc.Addr})
//	    // ...
//	}
//
// # CI Considerations
//
// These tests require Docker and network access and run only with the
// integration build tag. They are skipped gracefully if Docker is unavailable.
package testinfra
