// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/itemsim/internal/models"
)

// readinessTimeout bounds all readiness checks together.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// It returns 503 when a registered dependency check fails. An untrained
// model does not make the service unready, since training is requested
// through the API itself.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"model": "untrained"}
	if h.engine.Trained() {
		checks["model"] = "trained"
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			ready = false
			checks[name] = "error: " + err.Error()
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	respondJSON(w, r, code, &models.HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}
