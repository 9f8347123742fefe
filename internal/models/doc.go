// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package models defines the JSON request and response types of the HTTP API.

Successful responses are the bare payload types (TrainResponse,
RecommendResponse, ScoreItemsResponse, StatusResponse). Failures use
APIResponse with Status "error" and an APIError carrying a machine-readable
code.

Request types carry validate tags checked by internal/validation.
*/
package models
