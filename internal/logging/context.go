// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Log field names for IDs carried in a context.
const (
	FieldCorrelationID = "correlation_id"
	FieldRequestID     = "request_id"
)

type contextKey int

const (
	correlationIDKey contextKey = iota
	requestIDKey
	loggerKey
)

// GenerateCorrelationID returns a short random ID for one unit of work,
// such as a training run.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a random UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a copy of ctx carrying id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID returns a copy of ctx with a fresh correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// EnsureCorrelationID returns ctx unchanged if it already carries a
// correlation ID, and a copy with a fresh one otherwise.
func EnsureCorrelationID(ctx context.Context) context.Context {
	if CorrelationIDFromContext(ctx) != "" {
		return ctx
	}
	return ContextWithNewCorrelationID(ctx)
}

// CorrelationIDFromContext returns the correlation ID in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ContextWithRequestID returns a copy of ctx carrying an HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithLogger stores a base logger for Ctx to use.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext returns the stored logger or the global one.
func loggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns the context's logger with its correlation and request IDs
// attached.
//
//	logging.Ctx(ctx).Info().Int("reference_item_id", id).Msg("recommend")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := loggerFromContext(ctx).With()

	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str(FieldCorrelationID, id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str(FieldRequestID, id)
	}

	logger := logCtx.Logger()
	return &logger
}
