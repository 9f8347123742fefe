// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import (
	"time"

	"github.com/tomtom215/itemsim/internal/recommend/features"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Model    ModelConfig    `koanf:"model"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"

	// SlowRequestThreshold is the latency above which a request is logged
	// at warn level. Default: 1s
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ModelConfig holds similarity model settings.
type ModelConfig struct {
	// TopK is the neighbor count the index is built for.
	// Queries may ask for more. Default: 50
	TopK int `koanf:"top_k"`

	// DefaultTopN is used when a recommend request omits top_n.
	// Default: 10
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN bounds top_n on recommend requests.
	// Default: 1000
	MaxTopN int `koanf:"max_top_n"`

	// ItemsCSVPath is the catalog used for startup and scheduled training.
	ItemsCSVPath string `koanf:"items_csv_path"`

	// TrainOnStartup trains from ItemsCSVPath when no persisted model loads.
	// Default: false
	TrainOnStartup bool `koanf:"train_on_startup"`

	// TrainInterval is how often to retrain from ItemsCSVPath. Zero disables.
	// Default: 0
	TrainInterval time.Duration `koanf:"train_interval"`

	// TrainTimeout bounds one training run, whether started over HTTP,
	// at startup or by the schedule. Default: 30m
	TrainTimeout time.Duration `koanf:"train_timeout"`

	// ModelName keys the persisted model. Default: fast_item_cf
	ModelName string `koanf:"model_name"`

	// Features holds the encoder parameters and block weights.
	Features features.Config `koanf:"features"`
}

// StorageConfig selects and configures the model store backend.
type StorageConfig struct {
	// Backend is one of file, badger, redis or none. Default: file
	Backend string `koanf:"backend"`

	// Path is the directory used by the file and badger backends.
	// Default: /data/models
	Path string `koanf:"path"`

	// SyncWrites makes badger fsync every write. Default: true
	SyncWrites bool `koanf:"sync_writes"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// Breaker wraps the backend in a circuit breaker.
	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the model store circuit breaker.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Storage backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Load loads configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
