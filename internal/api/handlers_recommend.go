// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/metrics"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/validation"
)

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large", err)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body", err)
		return false
	}
	return true
}

// validateRequest validates v and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
	return false
}

// Train handles POST /api/v1/train.
// It trains a new model from a CSV on the server's filesystem.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	var req models.TrainRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.config.TrainTimeout)
	defer cancel()

	logging.Ctx(ctx).Info().
		Str("items_csv_path", sanitizeLogValue(req.ItemsCSVPath)).
		Int("top_k", req.TopK).
		Msg("training requested")

	res, err := h.trainer.Train(ctx, req.ItemsCSVPath, req.TopK)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.TrainResponse{
		Status:     models.TrainStatusTrained,
		Items:      res.Items,
		Features:   res.Features,
		TopK:       res.TopK,
		Version:    res.Version,
		DurationMS: res.Duration.Milliseconds(),
		Persisted:  res.Persisted,
	})
}

// Recommend handles GET /api/v1/recommend?reference_item_id=&top_n=.
// It returns the most similar items, most similar first.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	raw := query.Get("reference_item_id")
	if raw == "" {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "reference_item_id is required", nil)
		return
	}
	referenceID, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "reference_item_id must be an integer", nil)
		return
	}

	req := models.RecommendRequest{ReferenceItemID: referenceID, TopN: h.config.DefaultTopN}
	if rawTopN := query.Get("top_n"); rawTopN != "" {
		if req.TopN, err = strconv.Atoi(rawTopN); err != nil {
			respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "top_n must be an integer", nil)
			return
		}
	}
	if !validateRequest(w, r, &req) {
		return
	}
	if req.TopN > h.config.MaxTopN {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode,
			"top_n must be at most "+strconv.Itoa(h.config.MaxTopN), nil)
		return
	}

	start := time.Now()
	ids, err := h.engine.RecommendSimilar(r.Context(), req.ReferenceItemID, req.TopN)
	if err != nil {
		metrics.RecordQuery("recommend", time.Since(start), recommend.ErrorCode(err))
		respondDomainError(w, r, err)
		return
	}
	metrics.RecordQuery("recommend", time.Since(start), "")

	respondJSON(w, r, http.StatusOK, &models.RecommendResponse{
		ReferenceItemID: req.ReferenceItemID,
		Recommendations: ids,
	})
}

// ScoreItems handles POST /api/v1/score_items.
// It returns the similarity of each candidate to the reference item.
func (h *Handler) ScoreItems(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreItemsRequest
	if !h.decodeJSON(w, r, &req) || !validateRequest(w, r, &req) {
		return
	}

	start := time.Now()
	scores, err := h.engine.ScoreItems(r.Context(), *req.ReferenceItemID, req.ItemIDs)
	if err != nil {
		metrics.RecordQuery("score_items", time.Since(start), recommend.ErrorCode(err))
		respondDomainError(w, r, err)
		return
	}
	metrics.RecordQuery("score_items", time.Since(start), "")

	respondJSON(w, r, http.StatusOK, &models.ScoreItemsResponse{
		ReferenceItemID: *req.ReferenceItemID,
		Scores:          scores,
	})
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	resp := models.StatusResponse{
		Trained: status.Trained,
		Items:   status.ItemCount,
	}
	if status.Trained {
		trainedAt := status.TrainedAt
		resp.Features = status.FeatureCount
		resp.TopK = status.TopK
		resp.Version = status.Version
		resp.TrainedAt = &trainedAt
	}

	respondJSON(w, r, http.StatusOK, &resp)
}
