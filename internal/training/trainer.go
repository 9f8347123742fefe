// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/ingest"
	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/recommend/storage"
)

// CodeCSVNotFound is the error code for a missing training CSV.
const CodeCSVNotFound = "CSV_NOT_FOUND"

// ErrNoSource is returned when neither the request nor the configuration
// names a CSV to train from.
var ErrNoSource = errors.New("no items CSV path configured")

// ErrorCode classifies a training error. It extends recommend.ErrorCode
// with ingest failures.
func ErrorCode(err error) string {
	if errors.Is(err, ingest.ErrCSVNotFound) {
		return CodeCSVNotFound
	}
	if errors.Is(err, ErrNoSource) {
		return recommend.CodeInvalidInput
	}
	return recommend.ErrorCode(err)
}

// Options configures a Trainer.
type Options struct {
	// ModelName is the key the model is persisted under.
	ModelName string

	// DefaultTopK is used when a run does not specify topK.
	DefaultTopK int

	// DefaultCSVPath is used when a run does not specify a path.
	DefaultCSVPath string
}

// Result describes a successful training run.
type Result struct {
	Items     int
	Features  int
	TopK      int
	Version   int
	Source    string
	Duration  time.Duration
	Persisted bool
	Ingest    *ingest.Stats
}

// Trainer trains the engine from CSV files and persists the result.
type Trainer struct {
	engine *recommend.Engine
	store  *storage.Store
	opts   Options
	logger zerolog.Logger
}

// New creates a Trainer. store may be nil, in which case models are not
// persisted.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(engine *recommend.Engine, store *storage.Store, opts Options, logger zerolog.Logger) *Trainer {
	if opts.DefaultTopK < 1 {
		opts.DefaultTopK = engine.GetConfig().DefaultTopK
	}
	return &Trainer{
		engine: engine,
		store:  store,
		opts:   opts,
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// Train reads csvPath, fits the engine with topK neighbors and persists the
// new model. An empty csvPath or a zero topK selects the configured default.
//
// A persistence failure does not fail the run: the new model is already
// serving, so the error is logged and Result.Persisted is false.
func (t *Trainer) Train(ctx context.Context, csvPath string, topK int) (*Result, error) {
	ctx = logging.EnsureCorrelationID(ctx)
	logger := logging.Ctx(logging.ContextWithLogger(ctx, t.logger))

	if csvPath == "" {
		csvPath = t.opts.DefaultCSVPath
	}
	if topK == 0 {
		topK = t.opts.DefaultTopK
	}

	start := time.Now()
	res, err := t.train(ctx, logger, csvPath, topK)
	elapsed := time.Since(start)

	if err != nil {
		code := ErrorCode(err)
		metrics.RecordFit(elapsed, code)
		logger.Warn().Err(err).Str("code", code).Str("source", csvPath).Msg("training run failed")
		return nil, err
	}

	res.Duration = elapsed
	metrics.RecordFit(elapsed, "success")
	metrics.SetModelInfo(res.Items, res.Features, res.Version)

	if t.store != nil {
		res.Persisted = t.persist(ctx, logger, res)
	}

	logger.Info().
		Str("source", csvPath).
		Int("items", res.Items).
		Int("features", res.Features).
		Int("top_k", res.TopK).
		Int("version", res.Version).
		Bool("persisted", res.Persisted).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("training run complete")

	return res, nil
}

func (t *Trainer) train(ctx context.Context, logger *zerolog.Logger, csvPath string, topK int) (*Result, error) {
	if csvPath == "" {
		return nil, ErrNoSource
	}

	frame, stats, err := ingest.ReadItems(ctx, csvPath, *logger)
	if err != nil {
		return nil, err
	}

	status, err := t.engine.Fit(ctx, frame, topK)
	if err != nil {
		return nil, err
	}

	return &Result{
		Items:    status.ItemCount,
		Features: status.FeatureCount,
		TopK:     status.TopK,
		Version:  status.Version,
		Source:   csvPath,
		Ingest:   stats,
	}, nil
}

// persist saves the published model and reports whether it succeeded.
func (t *Trainer) persist(ctx context.Context, logger *zerolog.Logger, res *Result) bool {
	state, err := t.engine.Snapshot()
	if err != nil {
		logger.Error().Err(err).Msg("snapshot for persistence failed")
		return false
	}

	meta := storage.ModelMetadata{
		Source:             res.Source,
		TrainingDurationMS: res.Duration.Milliseconds(),
	}
	_, err = t.store.Save(ctx, t.opts.ModelName, state, meta)
	switch {
	case errors.Is(err, storage.ErrStaleModel):
		// A concurrent run already saved a newer model.
		logger.Info().Err(err).Str("model", t.opts.ModelName).Msg("skipped persisting superseded model")
		return false
	case err != nil:
		logger.Error().Err(err).Str("model", t.opts.ModelName).Msg("failed to persist trained model")
		return false
	}
	return true
}

// LoadPersisted restores the last saved model into the engine. It reports
// false without error when there is no store or nothing has been saved.
func (t *Trainer) LoadPersisted(ctx context.Context) (bool, error) {
	if t.store == nil {
		return false, nil
	}

	state, meta, err := t.store.Load(ctx, t.opts.ModelName)
	if errors.Is(err, storage.ErrNotFound) {
		t.logger.Info().Str("model", t.opts.ModelName).Msg("no persisted model found")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load model %s: %w", t.opts.ModelName, err)
	}

	if err := t.engine.Restore(state); err != nil {
		return false, err
	}

	status := t.engine.Status()
	metrics.SetModelInfo(status.ItemCount, status.FeatureCount, status.Version)

	t.logger.Info().
		Str("model", t.opts.ModelName).
		Int("items", status.ItemCount).
		Str("source", meta.Source).
		Time("saved_at", meta.SavedAt).
		Msg("persisted model restored")

	return true, nil
}
