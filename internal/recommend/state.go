// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/itemsim/internal/recommend/features"
	"github.com/tomtom215/itemsim/internal/recommend/index"
)

// State is the explicit, serializable form of a trained model. Every field is
// plain data so any encoder can round-trip it without reflection tricks.
type State struct {
	// Version is the model version at snapshot time.
	Version int

	// TopK is the neighbor count the index was built with.
	TopK int

	// TrainedAt is when the model was fit.
	TrainedAt time.Time

	// IDs maps row -> external item id, in training order.
	IDs []int

	// Features is the pipeline configuration the model was fit with.
	Features features.Config

	// Per-field text encoders.
	Title       EncoderState
	Description EncoderState
	Cast        EncoderState

	// GenreClasses is the sorted genre vocabulary.
	GenreClasses []string

	// Matrix is the combined, row-normalized feature matrix in CSR layout.
	Matrix features.Matrix
}

// EncoderState holds a fitted TF-IDF encoder: its terms in column order and
// the idf weight of each column.
type EncoderState struct {
	Vocabulary []string
	IDF        []float64
}

func encoderState(v *features.Vectorizer) EncoderState {
	return EncoderState{
		Vocabulary: append([]string(nil), v.Vocabulary()...),
		IDF:        append([]float64(nil), v.IDF()...),
	}
}

// Snapshot exports the published model. It returns ErrNotTrained before the
// first successful Fit or Restore.
func (e *Engine) Snapshot() (*State, error) {
	m := e.current.Load()
	if m == nil {
		return nil, ErrNotTrained
	}

	mat := m.space.Matrix
	return &State{
		Version:      m.version,
		TopK:         m.topK,
		TrainedAt:    m.trainedAt,
		IDs:          append([]int(nil), m.ids...),
		Features:     m.space.Config,
		Title:        encoderState(m.space.Title),
		Description:  encoderState(m.space.Description),
		Cast:         encoderState(m.space.Cast),
		GenreClasses: append([]string(nil), m.space.Genres.Classes()...),
		Matrix: features.Matrix{
			Rows:    mat.Rows,
			Cols:    mat.Cols,
			Indptr:  append([]int(nil), mat.Indptr...),
			Indices: append([]int(nil), mat.Indices...),
			Data:    append([]float64(nil), mat.Data...),
		},
	}, nil
}

// Restore validates s and publishes it as the current model.
func (e *Engine) Restore(s *State) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	m, err := modelFromState(s)
	if err != nil {
		e.errorCount.Add(1)
		return fmt.Errorf("restore model: %w", err)
	}
	e.current.Store(m)

	e.logger.Info().
		Int("version", m.version).
		Int("items", len(m.ids)).
		Int("features", m.space.Matrix.Cols).
		Time("trained_at", m.trainedAt).
		Msg("model restored")

	return nil
}

func modelFromState(s *State) (*model, error) {
	if s == nil {
		return nil, errors.New("state is nil")
	}
	if err := s.Features.Validate(); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	mat := s.Matrix
	if err := mat.Validate(); err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	if len(s.IDs) != mat.Rows {
		return nil, fmt.Errorf("%d ids for %d matrix rows", len(s.IDs), mat.Rows)
	}
	width := len(s.Title.Vocabulary) + len(s.Description.Vocabulary) +
		len(s.Cast.Vocabulary) + len(s.GenreClasses)
	if width != mat.Cols {
		return nil, fmt.Errorf("encoder widths sum to %d, matrix has %d columns", width, mat.Cols)
	}

	rows := rowIndex(s.IDs)
	if len(rows) != len(s.IDs) {
		return nil, errors.New("duplicate item ids")
	}

	title, err := features.RestoreVectorizer(s.Features.Title.Analyzer(), s.Features.Title.MaxFeatures,
		s.Title.Vocabulary, s.Title.IDF)
	if err != nil {
		return nil, fmt.Errorf("title encoder: %w", err)
	}
	desc, err := features.RestoreVectorizer(s.Features.Description.Analyzer(), s.Features.Description.MaxFeatures,
		s.Description.Vocabulary, s.Description.IDF)
	if err != nil {
		return nil, fmt.Errorf("description encoder: %w", err)
	}
	cast, err := features.RestoreVectorizer(s.Features.Cast.Analyzer(), s.Features.Cast.MaxFeatures,
		s.Cast.Vocabulary, s.Cast.IDF)
	if err != nil {
		return nil, fmt.Errorf("cast encoder: %w", err)
	}

	space := &features.Space{
		Config:      s.Features,
		Title:       title,
		Description: desc,
		Cast:        cast,
		Genres:      features.RestoreBinarizer(s.GenreClasses),
		Matrix:      &mat,
	}

	idx, err := index.Build(space.Matrix, s.TopK)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &model{
		ids:       append([]int(nil), s.IDs...),
		rows:      rows,
		space:     space,
		index:     idx,
		topK:      s.TopK,
		version:   s.Version,
		trainedAt: s.TrainedAt,
	}, nil
}
