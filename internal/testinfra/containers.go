// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

// dockerProbeTimeout bounds the `docker info` availability probe.
const dockerProbeTimeout = 5 * time.Second

// SkipIfNoDocker skips t when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), dockerProbeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skipf("Skipping test: Docker not available (%v)", err)
	}
}

// StartRedis starts a Redis container that lives until t ends. It skips t
// when Docker is unavailable and fails it when the container cannot start.
func StartRedis(t *testing.T, opts ...RedisOption) *RedisContainer {
	t.Helper()
	SkipIfNoDocker(t)

	rc, err := NewRedisContainer(context.Background(), opts...)
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rc.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate redis container: %v", err)
		}
	})
	return rc
}
