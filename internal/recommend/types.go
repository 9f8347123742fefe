// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"time"
)

// Item represents one catalog entry.
type Item struct {
	// ID is the external item identifier. Unique within a catalog.
	ID int `json:"item_id"`

	// Title is the item title. Empty if unknown.
	Title string `json:"title"`

	// Description is free-text synopsis. Empty if unknown.
	Description string `json:"description"`

	// Cast is free text naming the people involved. Empty if unknown.
	Cast string `json:"cast"`

	// Genres is a pipe-delimited genre list, e.g. "Action|Drama".
	Genres string `json:"genres"`
}

// Status describes the currently published model.
type Status struct {
	// Trained is false until the first successful Fit or Restore.
	Trained bool `json:"trained"`

	// ItemCount is the number of indexed items.
	ItemCount int `json:"items"`

	// FeatureCount is the width of the combined feature space.
	FeatureCount int `json:"features"`

	// TopK is the neighbor count the index was built with.
	TopK int `json:"top_k"`

	// Version increments with every published model.
	Version int `json:"version"`

	// TrainedAt is when the published model was fit.
	TrainedAt time.Time `json:"trained_at,omitempty"`
}

// Metrics contains engine counters.
type Metrics struct {
	// RequestCount is the total number of similarity and scoring queries.
	RequestCount int64 `json:"request_count"`

	// ErrorCount is the number of queries and fits that returned an error.
	ErrorCount int64 `json:"error_count"`

	// TrainingCount is the number of successful fits.
	TrainingCount int64 `json:"training_count"`

	// LastTrainingDurationMS is the duration of the last successful fit.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`
}
