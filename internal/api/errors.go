// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/itemsim/internal/recommend"
	"github.com/tomtom215/itemsim/internal/training"
)

// API-only error codes. Domain codes come from recommend.ErrorCode and
// training.ErrorCode.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
)

// statusForCode maps error codes to HTTP status codes.
var statusForCode = map[string]int{
	training.CodeCSVNotFound:         http.StatusBadRequest,
	recommend.CodeSchema:             http.StatusBadRequest,
	recommend.CodeInvalidInput:       http.StatusBadRequest,
	recommend.CodeNotTrained:         http.StatusBadRequest,
	recommend.CodeNotFound:           http.StatusNotFound,
	recommend.CodeTrainingInProgress: http.StatusConflict,
	recommend.CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for a domain error code.
func HTTPStatus(code string) int {
	if status, ok := statusForCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorDetails returns structured details for typed domain errors.
func errorDetails(err error) map[string]interface{} {
	var schemaErr *recommend.SchemaError
	if errors.As(err, &schemaErr) {
		return map[string]interface{}{"missing": schemaErr.Missing}
	}
	var notFound *recommend.NotFoundError
	if errors.As(err, &notFound) {
		return map[string]interface{}{"reference_item_id": notFound.ItemID}
	}
	return nil
}

// respondDomainError maps an engine, ingest or training error to its
// status and code. Internal errors get a generic message.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := training.ErrorCode(err)
	status := HTTPStatus(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}

	respondErrorDetails(w, r, status, code, message, errorDetails(err), err)
}
