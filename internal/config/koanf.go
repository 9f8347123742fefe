// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/itemsim/internal/recommend/features"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/itemsim/config.yaml",
	"/etc/itemsim/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 8000,
			Host:                 "0.0.0.0",
			Timeout:              60 * time.Second,
			Environment:          "development",
			SlowRequestThreshold: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Model: ModelConfig{
			TopK:           50,
			DefaultTopN:    10,
			MaxTopN:        1000,
			ItemsCSVPath:   "",
			TrainOnStartup: false,
			TrainInterval:  0,
			TrainTimeout:   30 * time.Minute,
			ModelName:      "fast_item_cf",
			Features:       features.DefaultConfig(),
		},
		Storage: StorageConfig{
			Backend:        BackendFile,
			Path:           "/data/models",
			SyncWrites:     true,
			RedisAddr:      "",
			RedisDB:        0,
			RedisKeyPrefix: "itemsim:",
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":                   "server.host",
	"http_port":                   "server.port",
	"http_timeout":                "server.timeout",
	"environment":                 "server.environment",
	"http_slow_request_threshold": "server.slow_request_threshold",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Model
	"model_top_k":              "model.top_k",
	"model_default_top_n":      "model.default_top_n",
	"model_max_top_n":          "model.max_top_n",
	"items_csv_path":           "model.items_csv_path",
	"model_train_on_startup":   "model.train_on_startup",
	"model_train_interval":     "model.train_interval",
	"model_train_timeout":      "model.train_timeout",
	"model_name":               "model.model_name",
	"title_weight":             "model.features.title.weight",
	"title_max_features":       "model.features.title.max_features",
	"description_weight":       "model.features.description.weight",
	"description_max_features": "model.features.description.max_features",
	"cast_weight":              "model.features.cast.weight",
	"cast_max_features":        "model.features.cast.max_features",
	"genre_weight":             "model.features.genre_weight",

	// Storage
	"storage_backend":                   "storage.backend",
	"storage_path":                      "storage.path",
	"storage_sync_writes":               "storage.sync_writes",
	"redis_addr":                        "storage.redis_addr",
	"redis_password":                    "storage.redis_password",
	"redis_db":                          "storage.redis_db",
	"redis_key_prefix":                  "storage.redis_key_prefix",
	"storage_breaker_enabled":           "storage.breaker.enabled",
	"storage_breaker_timeout":           "storage.breaker.timeout",
	"storage_breaker_failure_threshold": "storage.breaker.failure_threshold",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - ITEMS_CSV_PATH -> model.items_csv_path
//   - REDIS_ADDR -> storage.redis_addr
func envTransformFunc(key string) string {
	// Unmapped keys return "" and are skipped so unrelated
	// environment variables never reach the config.
	return envMappings[strings.ToLower(key)]
}
