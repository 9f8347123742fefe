// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/itemsim/internal/logging"
)

// captureIDs serves a request through RequestID and returns the response
// header ID plus the request and correlation IDs seen by the handler.
func captureIDs(t *testing.T, incoming string) (header, requestID, correlationID string) {
	t.Helper()

	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = GetRequestID(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec.Header().Get(RequestIDHeader), requestID, correlationID
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	header, requestID, correlationID := captureIDs(t, "")

	if _, err := uuid.Parse(header); err != nil {
		t.Errorf("response %s %q is not a UUID: %v", RequestIDHeader, header, err)
	}
	if requestID != header {
		t.Errorf("context request ID %q != header %q", requestID, header)
	}
	if correlationID == "" {
		t.Error("expected a correlation ID in context")
	}
}

func TestRequestID_PreservesExistingID(t *testing.T) {
	t.Parallel()

	header, requestID, _ := captureIDs(t, "upstream-proxy-id-123")

	if header != "upstream-proxy-id-123" || requestID != header {
		t.Errorf("header = %q, context = %q, want upstream-proxy-id-123", header, requestID)
	}
}

func TestRequestID_RejectsMalformedID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
	}{
		{"too long", strings.Repeat("a", maxRequestIDLen+1)},
		{"whitespace", "has space"},
		{"control character", "bad\x01id"},
		{"non-ascii", "idé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			header, _, _ := captureIDs(t, tt.id)
			if header == tt.id {
				t.Errorf("malformed ID %q was echoed", tt.id)
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Errorf("replacement ID %q is not a UUID", header)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		header, _, _ := captureIDs(t, "")
		if seen[header] {
			t.Fatalf("duplicate request ID %s", header)
		}
		seen[header] = true
	}
}
