// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultService is the service field stamped on every log line.
const DefaultService = "itemsim"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error,
	// fatal, panic or disabled.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	Timestamp bool

	// Service is added to every line as the "service" field, so lines from
	// several replicas can be told apart in a shared sink.
	// Default: itemsim
	Service string

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Service:   DefaultService,
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	log = New(DefaultConfig())
}

// Init configures the global logger and the global level.
// It may be called more than once; the last call wins.
func Init(cfg Config) {
	logger := New(cfg)

	mu.Lock()
	defer mu.Unlock()
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	log = logger
}

// New builds a logger from cfg without touching the global one.
// The global level set by Init still applies.
func New(cfg Config) zerolog.Logger {
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}

	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	logCtx := zerolog.New(output).Level(parseLevel(cfg.Level)).With().Str("service", cfg.Service)
	if cfg.Timestamp {
		logCtx = logCtx.Timestamp()
	}
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}
	return logCtx.Logger()
}

// parseLevel converts a level name to a zerolog.Level. Unknown names and
// the empty string mean info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// WithComponent returns a child of the global logger tagged with a
// component field. Long-lived components take one at construction:
//
//	engine, err := recommend.NewEngine(cfg, logging.WithComponent("recommend"))
func WithComponent(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

// Debug starts a new message with debug level.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts a new message with info level.
//
//	logging.Info().Msg("Server starting")
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a new message with warning level.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts a new message with error level.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// Fatal starts a new message with fatal level. os.Exit(1) is called after
// the message is written.
func Fatal() *zerolog.Event {
	l := Logger()
	return l.Fatal()
}
