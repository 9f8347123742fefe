// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/recommend/features"
	"github.com/tomtom215/itemsim/internal/recommend/index"
)

// Note: This package has no dependencies on transport, storage or ingestion
// packages. Callers hand it a Frame and persist the State it exports.

// Engine answers item similarity queries over a trained content model.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// trainMu serializes Fit and Restore. Readers never take it.
	trainMu sync.Mutex

	// current is nil while untrained. A published model is never mutated.
	current atomic.Pointer[model]

	// Metrics
	requestCount   atomic.Int64
	errorCount     atomic.Int64
	trainingCount  atomic.Int64
	lastTrainingMS atomic.Int64
}

// model is one immutable trained state.
type model struct {
	ids       []int       // row -> item id
	rows      map[int]int // item id -> row
	space     *features.Space
	index     *index.Index
	topK      int
	version   int
	trainedAt time.Time
}

// NewEngine creates a new untrained engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Fit trains a new model from frame and publishes it atomically. The previous
// model, if any, keeps serving until the new one is complete; on error it
// stays in place. topK must be at least 1 and sizes the index; later queries
// may ask for more neighbors.
//
// The returned Status describes the model this call published, even if
// another Fit publishes a newer one right after.
func (e *Engine) Fit(ctx context.Context, frame *Frame, topK int) (Status, error) {
	if !e.trainMu.TryLock() {
		return Status{}, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.logger.Info().Int("top_k", topK).Msg("starting model training")

	m, err := e.build(ctx, frame, topK)
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Warn().Err(err).Msg("model training failed")
		return Status{}, err
	}

	if prev := e.current.Load(); prev != nil {
		m.version = prev.version + 1
	} else {
		m.version = 1
	}
	e.current.Store(m)

	elapsed := time.Since(start)
	e.trainingCount.Add(1)
	e.lastTrainingMS.Store(elapsed.Milliseconds())

	title, desc, cast, genres := m.space.Dimensions()
	e.logger.Info().
		Int("version", m.version).
		Int("items", len(m.ids)).
		Int("features", m.space.Matrix.Cols).
		Int("title_terms", title).
		Int("description_terms", desc).
		Int("cast_terms", cast).
		Int("genres", genres).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("model training complete")

	return m.status(), nil
}

// build constructs a complete model off to the side.
func (e *Engine) build(ctx context.Context, frame *Frame, topK int) (*model, error) {
	if topK < 1 {
		return nil, invalidInput("topK must be at least 1, got %d", topK)
	}
	if frame == nil {
		return nil, invalidInput("frame is nil")
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	corpus := features.Corpus{}
	corpus.Title, _ = frame.Column(ColumnTitle)
	corpus.Description, _ = frame.Column(ColumnDescription)
	corpus.Cast, _ = frame.Column(ColumnCast)
	corpus.Genres, _ = frame.Column(ColumnGenres)

	space, err := features.Fit(ctx, e.config.Features, corpus)
	if err != nil {
		return nil, fmt.Errorf("fit features: %w", err)
	}

	idx, err := index.Build(space.Matrix, topK)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	ids := append([]int(nil), frame.IDs()...)
	return &model{
		ids:       ids,
		rows:      rowIndex(ids),
		space:     space,
		index:     idx,
		topK:      topK,
		trainedAt: time.Now().UTC(),
	}, nil
}

func rowIndex(ids []int) map[int]int {
	rows := make(map[int]int, len(ids))
	for i, id := range ids {
		rows[id] = i
	}
	return rows
}

// RecommendSimilar returns up to topN item ids most similar to referenceID,
// most similar first. The reference item is never included.
func (e *Engine) RecommendSimilar(ctx context.Context, referenceID, topN int) ([]int, error) {
	e.requestCount.Add(1)

	m, row, err := e.lookup(referenceID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if topN < 1 {
		e.errorCount.Add(1)
		return nil, invalidInput("topN must be at least 1, got %d", topN)
	}

	// At most every other row can be returned.
	if others := len(m.ids) - 1; topN > others {
		topN = others
	}
	if topN == 0 {
		return []int{}, nil
	}

	// One extra slot for the reference row itself.
	neighbors, err := m.index.Query(ctx, row, topN+1)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("query index: %w", err)
	}

	// Filter by row identity: duplicates of the reference may tie with it
	// at distance zero and sort ahead of it.
	result := make([]int, 0, topN)
	for _, nb := range neighbors {
		if nb.Row == row {
			continue
		}
		result = append(result, m.ids[nb.Row])
		if len(result) == topN {
			break
		}
	}

	e.logger.Debug().
		Int("reference_item_id", referenceID).
		Int("top_n", topN).
		Int("returned", len(result)).
		Msg("similar items computed")

	return result, nil
}

// ScoreItems returns the cosine similarity between referenceID and each
// candidate. Unknown candidates score exactly 0.
func (e *Engine) ScoreItems(ctx context.Context, referenceID int, candidateIDs []int) (map[int]float64, error) {
	e.requestCount.Add(1)

	m, row, err := e.lookup(referenceID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	scores := make(map[int]float64, len(candidateIDs))
	for _, id := range candidateIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		other, ok := m.rows[id]
		if !ok {
			scores[id] = 0
			continue
		}
		scores[id] = m.space.Matrix.RowDot(row, other)
	}
	return scores, nil
}

// lookup loads the published model once and resolves the reference row.
func (e *Engine) lookup(referenceID int) (*model, int, error) {
	m := e.current.Load()
	if m == nil {
		return nil, 0, ErrNotTrained
	}
	row, ok := m.rows[referenceID]
	if !ok {
		return nil, 0, &NotFoundError{ItemID: referenceID}
	}
	return m, row, nil
}

// Status returns a description of the published model.
func (e *Engine) Status() Status {
	m := e.current.Load()
	if m == nil {
		return Status{}
	}
	return m.status()
}

func (m *model) status() Status {
	return Status{
		Trained:      true,
		ItemCount:    len(m.ids),
		FeatureCount: m.space.Matrix.Cols,
		TopK:         m.topK,
		Version:      m.version,
		TrainedAt:    m.trainedAt,
	}
}

// Trained reports whether a model is published.
func (e *Engine) Trained() bool {
	return e.current.Load() != nil
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:           e.requestCount.Load(),
		ErrorCount:             e.errorCount.Load(),
		TrainingCount:          e.trainingCount.Load(),
		LastTrainingDurationMS: e.lastTrainingMS.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
