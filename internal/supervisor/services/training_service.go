// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/training"
)

// ModelTrainer runs one training job. *training.Trainer implements it.
type ModelTrainer interface {
	Train(ctx context.Context, csvPath string, topK int) (*training.Result, error)
}

// TrainingServiceConfig holds configuration for the training service.
type TrainingServiceConfig struct {
	// TrainOnStartup trains once when the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. Zero disables scheduled
	// retraining.
	TrainInterval time.Duration

	// Timeout bounds a single training run.
	// Default: 30m
	Timeout time.Duration

	// CSVPath overrides the trainer's default source when set.
	CSVPath string

	// TopK overrides the trainer's default neighbor count when positive.
	TopK int
}

// TrainingService retrains the model on startup and on a schedule under
// Suture supervision. Each run gets its own correlation ID.
type TrainingService struct {
	trainer ModelTrainer
	config  TrainingServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewTrainingService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(trainer ModelTrainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &TrainingService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "training").Logger(),
		name:    "training-service",
	}
}

// Serve implements the suture.Service interface.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training service starting")

	if s.config.TrainOnStartup {
		s.run(ctx, "startup")
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.run(ctx, "scheduled")
		}
	}
}

// run performs one training cycle. Failures are logged; the previous model
// keeps serving.
func (s *TrainingService) run(ctx context.Context, trigger string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(logging.ContextWithLogger(ctx, s.logger.With().Str("trigger", trigger).Logger()))

	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	res, err := s.trainer.Train(trainCtx, s.config.CSVPath, s.config.TopK)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		logger.Info().Msg("training skipped, another run is in progress")
	case err != nil:
		logger.Warn().Err(err).Str("code", training.ErrorCode(err)).Msg("training failed")
	default:
		logger.Info().
			Int("items", res.Items).
			Int("version", res.Version).
			Bool("persisted", res.Persisted).
			Dur("duration", res.Duration).
			Msg("training complete")
	}
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
