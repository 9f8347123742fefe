// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string
	}{
		{"info", func(l *slog.Logger) { l.Info("msg") }, "info"},
		{"warn", func(l *slog.Logger) { l.Warn("msg") }, "warn"},
		{"error", func(l *slog.Logger) { l.Error("msg") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(slog.New(NewSlogHandler(zerolog.New(&buf))))
			if !strings.Contains(buf.String(), `"level":"`+tt.level+`"`) {
				t.Errorf("output = %s, want level %s", buf.String(), tt.level)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Error("warn and error should be enabled at warn level")
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		WithGroup("event").
		With("service", "recommend")

	logger.Info("service restarted",
		"attempt", 3,
		"ok", true,
		"backoff", 2*time.Second,
		slog.Group("err", "msg", "boom"),
	)

	out := buf.String()
	for _, want := range []string{
		`"event.service":"recommend"`,
		`"event.attempt":3`,
		`"event.ok":true`,
		`"event.err.msg":"boom"`,
		`"message":"service restarted"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestNewSlogLogger_Component(t *testing.T) {
	out := withGlobal(t, Config{Level: "info"}, func() {
		NewSlogLogger("supervisor").Warn("service terminated", "name", "training-service")
	})

	for _, want := range []string{`"component":"supervisor"`, `"name":"training-service"`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_ContextAndErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf)))
	ctx := ContextWithCorrelationID(context.Background(), "run-7")

	logger.ErrorContext(ctx, "training failed",
		"err", errors.New("csv missing"),
		slog.Group("", "inline", 1),
		slog.Attr{},
	)

	out := buf.String()
	for _, want := range []string{`"correlation_id":"run-7"`, `"err":"csv missing"`, `"inline":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, `"":`) {
		t.Errorf("empty attr should be dropped: %s", out)
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelInfo + 2, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
