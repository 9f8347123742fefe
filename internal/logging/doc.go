// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package logging provides centralized zerolog-based structured logging for ItemSim.
//
// # Quick Start
//
//	import "github.com/tomtom215/itemsim/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:   "info",
//	    Format:  "json",
//	    Service: "itemsim",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Training failed")
//
//	// With context (request and correlation IDs)
//	logging.Ctx(ctx).Info().Int("reference_item_id", id).Msg("Recommend request")
//
// # Components
//
// Long-lived components receive a zerolog.Logger at construction and tag it
// with a component field:
//
//	engineLogger := logging.WithComponent("recommend")
//
// # Context Propagation
//
// The HTTP request ID middleware stores a request ID in the request context.
// Training runs call EnsureCorrelationID so a scheduled run and the trainer
// it drives share one ID. Ctx adds both IDs to log lines.
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog. The supervisor tree logs through
// NewSlogLogger("supervisor") via sutureslog.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
