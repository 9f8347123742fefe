// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/ingest"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/training"
	"github.com/tomtom215/itemsim/internal/validation"
)

func testItems() []recommend.Item {
	return []recommend.Item{
		{ID: 1, Title: "Rocky", Description: "Boxing film", Cast: "Sylvester Stallone", Genres: "Drama"},
		{ID: 2, Title: "Rocky II", Description: "Boxing sequel", Cast: "Sylvester Stallone", Genres: "Drama"},
		{ID: 3, Title: "Cooking Show", Description: "Recipes", Cast: "Gordon Ramsay", Genres: "Reality"},
		{ID: 4, Title: "Creed", Description: "Boxing drama about Adonis", Cast: "Michael B. Jordan|Sylvester Stallone", Genres: "Drama|Sport"},
		{ID: 5, Title: "Kitchen Nightmares", Description: "Restaurant rescue", Cast: "Gordon Ramsay", Genres: "Reality"},
	}
}

// fakeTrainer records its arguments and returns a canned result.
type fakeTrainer struct {
	err     error
	gotPath string
	gotTopK int
}

func (f *fakeTrainer) Train(_ context.Context, csvPath string, topK int) (*training.Result, error) {
	f.gotPath, f.gotTopK = csvPath, topK
	if f.err != nil {
		return nil, f.err
	}
	return &training.Result{Items: 5, Features: 42, TopK: 7, Version: 3, Duration: 1500 * time.Millisecond, Persisted: true}, nil
}

func newEngine(t *testing.T, trained bool) *recommend.Engine {
	t.Helper()
	e, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if trained {
		if _, err := e.Fit(context.Background(), recommend.FrameFromItems(testItems()), 3); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
	}
	return e
}

func newTestRouter(h *Handler) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, RouterConfig{Middleware: cfg, SlowRequestThreshold: time.Minute})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// assertError checks the status code and the error envelope's code.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) *models.APIError {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, wantStatus, rec.Body.String())
	}
	var resp models.APIResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "error" || resp.Error == nil {
		t.Fatalf("response is not an error envelope: %s", rec.Body.String())
	}
	if resp.Error.Code != wantCode {
		t.Errorf("error code = %s, want %s", resp.Error.Code, wantCode)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("error metadata should carry the request ID")
	}
	return resp.Error
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(newEngine(t, true), &fakeTrainer{}, HandlerConfig{DefaultTopN: 2, MaxTopN: 10}))

	t.Run("explicit top_n", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, router, http.MethodGet, "/api/v1/recommend?reference_item_id=1&top_n=3", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
		}
		var resp models.RecommendResponse
		decodeBody(t, rec, &resp)
		if resp.ReferenceItemID != 1 || len(resp.Recommendations) != 3 {
			t.Errorf("response = %+v, want 3 recommendations for item 1", resp)
		}
		for _, id := range resp.Recommendations {
			if id == 1 {
				t.Error("reference item must not be recommended")
			}
		}
		if resp.Recommendations[0] != 2 {
			t.Errorf("most similar to Rocky = %d, want 2 (Rocky II)", resp.Recommendations[0])
		}
	})

	t.Run("default top_n", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, router, http.MethodGet, "/api/v1/recommend?reference_item_id=3", "")
		var resp models.RecommendResponse
		decodeBody(t, rec, &resp)
		if len(resp.Recommendations) != 2 {
			t.Errorf("recommendations = %v, want DefaultTopN=2 entries", resp.Recommendations)
		}
	})

	t.Run("top_n larger than catalog", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, router, http.MethodGet, "/api/v1/recommend?reference_item_id=3&top_n=10", "")
		var resp models.RecommendResponse
		decodeBody(t, rec, &resp)
		if len(resp.Recommendations) != 4 {
			t.Errorf("recommendations = %v, want all 4 other items", resp.Recommendations)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, router, http.MethodGet, "/api/v1/recommend?reference_item_id=999", "")
		apiErr := assertError(t, rec, http.StatusNotFound, recommend.CodeNotFound)
		if apiErr.Details["reference_item_id"] != float64(999) {
			t.Errorf("details = %v", apiErr.Details)
		}
	})

	badRequests := map[string]string{
		"missing reference": "/api/v1/recommend",
		"non-integer ref":   "/api/v1/recommend?reference_item_id=abc",
		"zero top_n":        "/api/v1/recommend?reference_item_id=1&top_n=0",
		"non-integer top_n": "/api/v1/recommend?reference_item_id=1&top_n=x",
		"top_n above max":   "/api/v1/recommend?reference_item_id=1&top_n=11",
	}
	for name, target := range badRequests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assertError(t, doRequest(t, router, http.MethodGet, target, ""), http.StatusBadRequest, validation.ErrorCode)
		})
	}
}

func TestRecommend_NotTrained(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(newEngine(t, false), &fakeTrainer{}, HandlerConfig{}))
	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommend?reference_item_id=1", "")
	assertError(t, rec, http.StatusBadRequest, recommend.CodeNotTrained)
}

func TestScoreItems(t *testing.T) {
	t.Parallel()

	router := newTestRouter(NewHandler(newEngine(t, true), &fakeTrainer{}, HandlerConfig{}))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/score_items", `{"reference_item_id":1,"item_ids":[1,2,3,999]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ReferenceItemID int                `json:"reference_item_id"`
		Scores          map[string]float64 `json:"scores"`
	}
	decodeBody(t, rec, &resp)

	if resp.ReferenceItemID != 1 || len(resp.Scores) != 4 {
		t.Fatalf("response = %+v", resp)
	}
	if math.Abs(resp.Scores["1"]-1) > 1e-9 {
		t.Errorf("self score = %v, want 1", resp.Scores["1"])
	}
	if resp.Scores["999"] != 0 {
		t.Errorf("unknown candidate score = %v, want 0", resp.Scores["999"])
	}
	if resp.Scores["2"] <= resp.Scores["3"] {
		t.Errorf("Rocky II (%v) should outscore Cooking Show (%v)", resp.Scores["2"], resp.Scores["3"])
	}
}

func TestScoreItems_Errors(t *testing.T) {
	t.Parallel()

	trained := newTestRouter(NewHandler(newEngine(t, true), &fakeTrainer{}, HandlerConfig{}))
	untrained := newTestRouter(NewHandler(newEngine(t, false), &fakeTrainer{}, HandlerConfig{}))

	tests := []struct {
		name       string
		router     http.Handler
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid json", trained, `{"reference_item_id":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"missing reference", trained, `{"item_ids":[1]}`, http.StatusBadRequest, validation.ErrorCode},
		{"missing item_ids", trained, `{"reference_item_id":1}`, http.StatusBadRequest, validation.ErrorCode},
		{"unknown reference", trained, `{"reference_item_id":999,"item_ids":[1]}`, http.StatusNotFound, recommend.CodeNotFound},
		{"not trained", untrained, `{"reference_item_id":1,"item_ids":[1]}`, http.StatusBadRequest, recommend.CodeNotTrained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doRequest(t, tt.router, http.MethodPost, "/api/v1/score_items", tt.body)
			assertError(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestTrain(t *testing.T) {
	t.Parallel()

	trainer := &fakeTrainer{}
	router := newTestRouter(NewHandler(newEngine(t, false), trainer, HandlerConfig{}))

	rec := doRequest(t, router, http.MethodPost, "/api/v1/train", `{"items_csv_path":"/data/items.csv","top_k":7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
	}

	var resp models.TrainResponse
	decodeBody(t, rec, &resp)
	want := models.TrainResponse{
		Status: models.TrainStatusTrained, Items: 5, Features: 42, TopK: 7,
		Version: 3, DurationMS: 1500, Persisted: true,
	}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
	if trainer.gotPath != "/data/items.csv" || trainer.gotTopK != 7 {
		t.Errorf("trainer called with (%q, %d)", trainer.gotPath, trainer.gotTopK)
	}
}

func TestTrain_Errors(t *testing.T) {
	t.Parallel()

	validBody := `{"items_csv_path":"/data/items.csv"}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"csv not found", validBody, fmt.Errorf("open: %w", ingest.ErrCSVNotFound), http.StatusBadRequest, training.CodeCSVNotFound},
		{"schema", validBody, &recommend.SchemaError{Missing: []string{"cast"}}, http.StatusBadRequest, recommend.CodeSchema},
		{"training in progress", validBody, recommend.ErrTrainingInProgress, http.StatusConflict, recommend.CodeTrainingInProgress},
		{"internal", validBody, errors.New("disk on fire"), http.StatusInternalServerError, recommend.CodeInternal},
		{"missing path", `{"top_k":5}`, nil, http.StatusBadRequest, validation.ErrorCode},
		{"negative top_k", `{"items_csv_path":"a.csv","top_k":-1}`, nil, http.StatusBadRequest, validation.ErrorCode},
		{"not json", `items.csv`, nil, http.StatusBadRequest, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := newTestRouter(NewHandler(newEngine(t, false), &fakeTrainer{err: tt.err}, HandlerConfig{}))
			rec := doRequest(t, router, http.MethodPost, "/api/v1/train", tt.body)
			apiErr := assertError(t, rec, tt.wantStatus, tt.wantCode)

			switch tt.wantCode {
			case recommend.CodeSchema:
				missing, _ := apiErr.Details["missing"].([]interface{})
				if len(missing) != 1 || missing[0] != "cast" {
					t.Errorf("details = %v, want missing [cast]", apiErr.Details)
				}
			case recommend.CodeInternal:
				if strings.Contains(apiErr.Message, "disk on fire") {
					t.Error("internal error text must not reach the client")
				}
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	untrained := doRequest(t, newTestRouter(NewHandler(newEngine(t, false), &fakeTrainer{}, HandlerConfig{})), http.MethodGet, "/api/v1/status", "")
	if untrained.Code != http.StatusOK {
		t.Fatalf("status = %d", untrained.Code)
	}
	if got := strings.TrimSpace(untrained.Body.String()); got != `{"trained":false,"items":0}` {
		t.Errorf("untrained body = %s", got)
	}

	trained := doRequest(t, newTestRouter(NewHandler(newEngine(t, true), &fakeTrainer{}, HandlerConfig{})), http.MethodGet, "/api/v1/status", "")
	var resp models.StatusResponse
	decodeBody(t, trained, &resp)
	if !resp.Trained || resp.Items != 5 || resp.TopK != 3 || resp.Version != 1 || resp.TrainedAt == nil {
		t.Errorf("trained status = %+v", resp)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		training.CodeCSVNotFound:         http.StatusBadRequest,
		recommend.CodeSchema:             http.StatusBadRequest,
		recommend.CodeInvalidInput:       http.StatusBadRequest,
		recommend.CodeNotTrained:         http.StatusBadRequest,
		recommend.CodeNotFound:           http.StatusNotFound,
		recommend.CodeTrainingInProgress: http.StatusConflict,
		recommend.CodeInternal:           http.StatusInternalServerError,
		"SOMETHING_NEW":                  http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7fc"); got != `a\x0ab\x7fc` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
