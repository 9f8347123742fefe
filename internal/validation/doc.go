// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package validation provides request struct validation using
go-playground/validator v10.

A single validator instance is created on first use and shared; it caches
struct metadata and is safe for concurrent use. Error field names come from
json tags, so messages name the wire field ("top_k must be at least 1").

Custom tags:

  - csvpath: non-blank path without NUL bytes

Usage:

	type TrainRequest struct {
	    ItemsCSVPath string `json:"items_csv_path" validate:"required,csvpath"`
	    TopK         int    `json:"top_k" validate:"min=1,max=10000"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // respond 400 with apiErr.Code, apiErr.Message, apiErr.Details
	}
*/
package validation
