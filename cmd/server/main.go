// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/itemsim/internal/api"
	"github.com/tomtom215/itemsim/internal/config"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/supervisor"
	"github.com/tomtom215/itemsim/internal/supervisor/services"
	"github.com/tomtom215/itemsim/internal/training"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage_backend", cfg.Storage.Backend).
		Int("top_k", cfg.Model.TopK).
		Msg("Starting ItemSim with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Server stopped")
}

// run wires the components and blocks until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := recommend.NewEngine(&recommend.Config{
		Features:    cfg.Model.Features,
		DefaultTopK: cfg.Model.TopK,
	}, logging.WithComponent("recommend"))
	if err != nil {
		return err
	}
	if err := metrics.RegisterEngineStats(prometheus.DefaultRegisterer, engineStats(engine)); err != nil {
		return fmt.Errorf("register engine metrics: %w", err)
	}

	store, err := openModelStore(ctx, &cfg.Storage, logging.WithComponent("storage"))
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing model store")
			}
		}()
	}

	trainer := training.New(engine, store, training.Options{
		ModelName:      cfg.Model.ModelName,
		DefaultTopK:    cfg.Model.TopK,
		DefaultCSVPath: cfg.Model.ItemsCSVPath,
	}, logging.WithComponent("training"))

	// Restore before serving so the first request sees the last model.
	if _, err := trainer.LoadPersisted(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to restore persisted model, starting untrained")
	}

	handler := api.NewHandler(engine, trainer, api.HandlerConfig{
		DefaultTopN:  cfg.Model.DefaultTopN,
		MaxTopN:      cfg.Model.MaxTopN,
		TrainTimeout: cfg.Model.TrainTimeout,
	})
	if store != nil {
		handler.AddReadinessCheck("model_store", storeReadinessCheck(store, cfg.Model.ModelName))
	}

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	router := api.NewRouter(handler, api.RouterConfig{
		Middleware:           mwConfig,
		SlowRequestThreshold: cfg.Server.SlowRequestThreshold,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	// Create supervisor tree, bridging zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	tree.AddTrainingService(services.NewTrainingService(trainer, services.TrainingServiceConfig{
		TrainOnStartup: cfg.Model.TrainOnStartup,
		TrainInterval:  cfg.Model.TrainInterval,
		Timeout:        cfg.Model.TrainTimeout,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))

	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	return nil
}

// engineStats adapts the engine counters for the /metrics collector.
func engineStats(engine *recommend.Engine) func() metrics.EngineStats {
	return func() metrics.EngineStats {
		m := engine.GetMetrics()
		return metrics.EngineStats{
			Requests:       m.RequestCount,
			Errors:         m.ErrorCount,
			Trainings:      m.TrainingCount,
			LastTrainingMS: m.LastTrainingDurationMS,
		}
	}
}
