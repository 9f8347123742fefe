// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// compressionLevel trades a little ratio for latency on hot query paths.
const compressionLevel = 5

// compressibleTypes lists the response types that get compressed. Anything
// else (metrics exposition, empty bodies) passes through.
var compressibleTypes = []string{"application/json"}

var compress = chimiddleware.Compress(compressionLevel, compressibleTypes...)

// Compression gzips or deflates JSON responses for clients that accept it.
// Recommendation lists for large top_n values compress well.
func Compression(next http.Handler) http.Handler {
	return compress(next)
}
