// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package api provides the HTTP interface of the similarity engine.

Routes are served by a chi router (see NewRouter):

	POST /api/v1/train          train from a CSV and persist the model
	GET  /api/v1/recommend      ?reference_item_id=&top_n= similar items
	POST /api/v1/score_items    score candidates against a reference item
	GET  /api/v1/status         {trained, items}
	GET  /api/v1/health/live    liveness probe
	GET  /api/v1/health/ready   readiness probe
	GET  /metrics               Prometheus metrics

Request and Response Format:

Successful responses are the bare payload types from internal/models.
Errors use models.APIResponse:

	{
	  "status": "error",
	  "error": {"code": "MODEL_NOT_TRAINED", "message": "model not trained"},
	  "metadata": {"timestamp": "...", "request_id": "..."}
	}

Error Mapping:

	CSV_NOT_FOUND, SCHEMA, INVALID_INPUT,
	VALIDATION_ERROR, MODEL_NOT_TRAINED     400
	NOT_FOUND                               404
	TRAINING_IN_PROGRESS                    409
	TOO_MANY_REQUESTS                       429
	INTERNAL_ERROR                          500

Middleware Stack:

Global middleware runs in this order: request ID, panic recovery, request
logging, Prometheus metrics, CORS. The /api/v1 routes add rate limiting,
security headers and gzip compression.
*/
package api
