// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/recommend"
)

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model name, e.g. "fast_item_cf".
	Name string `json:"name"`

	// Version is the engine's model version at save time.
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// ItemCount is the number of indexed items.
	ItemCount int `json:"item_count"`

	// FeatureCount is the width of the feature space.
	FeatureCount int `json:"feature_count"`

	// TopK is the index neighbor count.
	TopK int `json:"top_k"`

	// Source describes the training input, e.g. a CSV path.
	Source string `json:"source,omitempty"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Store saves and loads trained models by name on a Backend.
// Each name maps to a fixed key, so a save replaces the previous model.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	// mu serializes saves so the model blob and its metadata stay paired.
	mu sync.Mutex
	// latest is the highest version saved or loaded per name.
	latest map[string]int
}

// ErrStaleModel is returned by Save when a newer version of the model has
// already been saved or loaded through this store.
var ErrStaleModel = errors.New("stale model version")

// NewStore creates a store on backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "model_store").Str("backend", backend.Name()).Logger(),
		latest:  make(map[string]int),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

func modelKey(name string) string { return "models/" + name + ".gob.gz" }
func metaKey(name string) string  { return "models/" + name + ".meta.json" }

// Save encodes state and writes it under name. Fields derivable from state
// are filled into meta; the stored metadata is returned. A state older than
// the last one saved or loaded under name is rejected with ErrStaleModel.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, state *recommend.State, meta ModelMetadata) (*ModelMetadata, error) {
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if state == nil {
		return nil, fmt.Errorf("state is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if latest, ok := s.latest[name]; ok && state.Version < latest {
		metrics.RecordModelPersist(s.backend.Name(), "save", "stale")
		return nil, fmt.Errorf("%w: version %d, store has %d", ErrStaleModel, state.Version, latest)
	}

	saved, err := s.save(ctx, name, state, meta)
	s.record("save", err)
	if err == nil {
		s.latest[name] = state.Version
		metrics.SetModelPersistBytes(s.backend.Name(), saved.SizeBytes)
	}
	return saved, err
}

//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) save(ctx context.Context, name string, state *recommend.State, meta ModelMetadata) (*ModelMetadata, error) {
	meta.Name = name
	meta.Version = state.Version
	meta.TrainedAt = state.TrainedAt
	meta.ItemCount = len(state.IDs)
	meta.FeatureCount = state.Matrix.Cols
	meta.TopK = state.TopK

	blob, meta, err := Encode(state, meta)
	if err != nil {
		return nil, err
	}

	if err := s.backend.Set(ctx, modelKey(name), blob); err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}

	sidecar, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := s.backend.Set(ctx, metaKey(name), sidecar); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	s.logger.Info().
		Str("model", name).
		Int("version", meta.Version).
		Int("items", meta.ItemCount).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model saved")

	return &meta, nil
}

// Load reads and verifies the model stored under name.
// It returns ErrNotFound if nothing has been saved.
func (s *Store) Load(ctx context.Context, name string) (*recommend.State, *ModelMetadata, error) {
	blob, err := s.backend.Get(ctx, modelKey(name))
	if err != nil {
		s.record("load", err)
		return nil, nil, err
	}

	state, meta, err := Decode(blob)
	if err != nil {
		s.record("load", err)
		return nil, nil, fmt.Errorf("decode model %s: %w", name, err)
	}
	s.record("load", nil)
	s.noteLoaded(name, state.Version)

	s.logger.Info().
		Str("model", name).
		Int("version", meta.Version).
		Int("items", meta.ItemCount).
		Msg("model loaded")

	return state, meta, nil
}

func (s *Store) noteLoaded(name string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version > s.latest[name] {
		s.latest[name] = version
	}
}

// record counts a save or load by outcome.
func (s *Store) record(op string, err error) {
	result := "success"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.RecordModelPersist(s.backend.Name(), op, result)
}

// Metadata returns the metadata of the model stored under name without
// decoding the model itself.
func (s *Store) Metadata(ctx context.Context, name string) (*ModelMetadata, error) {
	raw, err := s.backend.Get(ctx, metaKey(name))
	if err != nil {
		return nil, err
	}
	var meta ModelMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &meta, nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
