// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package models

import "time"

// TrainStatusTrained is the status string of a successful train response.
const TrainStatusTrained = "content-model-trained"

// TrainRequest is the body of POST /api/v1/train.
//
// TopK is the number of neighbors per item kept by the index; zero selects
// the configured default.
type TrainRequest struct {
	ItemsCSVPath string `json:"items_csv_path" validate:"required,csvpath"`
	TopK         int    `json:"top_k,omitempty" validate:"gte=0,lte=10000"`
}

// TrainResponse reports a completed training run.
//
//	{"status": "content-model-trained", "items": 1200, "features": 18340, "top_k": 50}
type TrainResponse struct {
	Status     string `json:"status"`
	Items      int    `json:"items"`
	Features   int    `json:"features"`
	TopK       int    `json:"top_k"`
	Version    int    `json:"version"`
	DurationMS int64  `json:"duration_ms"`
	Persisted  bool   `json:"persisted"`
}

// RecommendRequest holds the query parameters of GET /api/v1/recommend.
type RecommendRequest struct {
	ReferenceItemID int `json:"reference_item_id"`
	TopN            int `json:"top_n" validate:"gte=1"`
}

// RecommendResponse lists similar items, most similar first.
//
//	{"reference_item_id": 42, "recommendations": [17, 3, 99]}
type RecommendResponse struct {
	ReferenceItemID int   `json:"reference_item_id"`
	Recommendations []int `json:"recommendations"`
}

// ScoreItemsRequest is the body of POST /api/v1/score_items.
type ScoreItemsRequest struct {
	ReferenceItemID *int  `json:"reference_item_id" validate:"required"`
	ItemIDs         []int `json:"item_ids" validate:"required,max=10000"`
}

// ScoreItemsResponse maps each candidate id to its cosine similarity with
// the reference item. Unknown candidates score 0.
//
//	{"reference_item_id": 42, "scores": {"17": 0.83, "5000": 0}}
type ScoreItemsResponse struct {
	ReferenceItemID int             `json:"reference_item_id"`
	Scores          map[int]float64 `json:"scores"`
}

// StatusResponse describes the serving model.
//
//	{"trained": true, "items": 1200}
type StatusResponse struct {
	Trained   bool       `json:"trained"`
	Items     int        `json:"items"`
	Features  int        `json:"features,omitempty"`
	TopK      int        `json:"top_k,omitempty"`
	Version   int        `json:"version,omitempty"`
	TrainedAt *time.Time `json:"trained_at,omitempty"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// APIResponse wraps error responses.
//
//	{
//	  "status": "error",
//	  "error": {"code": "MODEL_NOT_TRAINED", "message": "model not trained"},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z", "request_id": "…"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - MODEL_NOT_TRAINED: no model has been trained or loaded
//   - NOT_FOUND: the reference item is not in the model
//   - SCHEMA: the training data lacks required columns
//   - CSV_NOT_FOUND: the training CSV does not exist
//   - VALIDATION_ERROR: the request failed validation
//   - TRAINING_IN_PROGRESS: another training run holds the model
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
