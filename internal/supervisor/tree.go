// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/itemsim/internal/metrics"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults with a 10s shutdown
// timeout.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree manages the hierarchical supervisor structure for ItemSim.
//
// The tree has two layers:
//   - training: scheduled model training
//   - api: HTTP server
//
// A training job that panics or fails repeatedly backs off on its own
// without interrupting the API, which keeps serving the last published model.
type SupervisorTree struct {
	root     *suture.Supervisor
	training *suture.Supervisor
	api      *suture.Supervisor
	logger   *slog.Logger
	config   TreeConfig
}

// withDefaults fills zero fields from DefaultTreeConfig.
func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

// spec builds a suture.Spec. Layers pass a nil hook and inherit the root's
// when added to it.
func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// NewSupervisorTree builds the root and its training and api layers. Zero
// config fields take their defaults. Supervisor events are logged through
// logger and restarts are counted in supervisor_service_restarts_total.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	root := suture.New("itemsim", config.spec(countingHook(handler.MustHook())))
	training := suture.New("training-layer", config.spec(nil))
	api := suture.New("api-layer", config.spec(nil))

	root.Add(training)
	root.Add(api)

	return &SupervisorTree{
		root:     root,
		training: training,
		api:      api,
		logger:   logger,
		config:   config,
	}, nil
}

// countingHook forwards events to next and counts service restarts.
func countingHook(next suture.EventHook) suture.EventHook {
	return func(e suture.Event) {
		switch ev := e.(type) {
		case suture.EventServiceTerminate:
			if ev.Restarting {
				metrics.RecordServiceRestart(ev.ServiceName)
			}
		case suture.EventServicePanic:
			if ev.Restarting {
				metrics.RecordServiceRestart(ev.ServiceName)
			}
		}
		next(e)
	}
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddTrainingService adds a service to the training layer supervisor.
func (t *SupervisorTree) AddTrainingService(svc suture.Service) suture.ServiceToken {
	return t.training.Add(svc)
}

// AddAPIService adds a service to the API layer supervisor.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result of Serve.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services still running after the shutdown
// timeout. Call it after Serve returns.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
