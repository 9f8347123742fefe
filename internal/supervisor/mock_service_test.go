// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// mockService implements suture.Service with controllable failures.
type mockService struct {
	name       string
	startCount atomic.Int32
	failCount  atomic.Int32
	maxFails   int32
	panics     bool
	mu         sync.Mutex
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)

	m.mu.Lock()
	maxFails, panics := m.maxFails, m.panics
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		if panics {
			panic("simulated panic")
		}
		return errors.New("simulated failure")
	}

	<-ctx.Done()
	return ctx.Err()
}

// setFailCount makes the next n calls to Serve fail, by panicking when
// panics is set.
func (m *mockService) setFailCount(n int, panics bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
	m.panics = panics
}

func (m *mockService) starts() int32 {
	return m.startCount.Load()
}

func (m *mockService) String() string {
	return m.name
}
