// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package config provides centralized configuration management for ItemSim.

Configuration is loaded with Koanf in three layers, later layers overriding
earlier ones:

 1. Defaults: built-in values from defaultConfig
 2. Config file: optional YAML file (CONFIG_PATH or a default location)
 3. Environment variables: mapped explicitly, unknown variables are ignored

# Configuration Structure

  - ServerConfig: HTTP listen address and request timeout
  - LoggingConfig: zerolog level, format and caller info
  - ModelConfig: top-k, query limits, training schedule, feature weights
  - StorageConfig: model store backend (file, badger, redis or none)
  - SecurityConfig: CORS origins and rate limiting

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8000)
  - HTTP_TIMEOUT: Request timeout (default: 60s)
  - HTTP_SLOW_REQUEST_THRESHOLD: requests slower than this log at warn (default: 1s)
  - ENVIRONMENT: development, staging or production (default: development)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line (default: false)

Model:
  - MODEL_TOP_K: index neighbor count used by training (default: 50)
  - MODEL_DEFAULT_TOP_N: recommendations returned when top_n is omitted (default: 10)
  - MODEL_MAX_TOP_N: largest accepted top_n (default: 1000)
  - ITEMS_CSV_PATH: CSV used for startup and scheduled training
  - MODEL_TRAIN_ON_STARTUP: train from ITEMS_CSV_PATH at startup (default: false)
  - MODEL_TRAIN_INTERVAL: retrain period, 0 disables (default: 0)
  - MODEL_TRAIN_TIMEOUT: bound on one training run (default: 30m)
  - MODEL_NAME: persisted model name (default: fast_item_cf)
  - TITLE_WEIGHT, DESCRIPTION_WEIGHT, CAST_WEIGHT, GENRE_WEIGHT: block weights

Storage:
  - STORAGE_BACKEND: file, badger, redis or none (default: file)
  - STORAGE_PATH: directory for file and badger backends (default: /data/models)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX: redis backend
  - STORAGE_BREAKER_ENABLED: wrap the backend in a circuit breaker (default: true)

Security:
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS: requests per window (default: 100)
  - RATE_LIMIT_WINDOW: rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: disable rate limiting (default: false)

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	fmt.Println(cfg.Server.Port)

# Thread Safety

Config values are read-only after loading and safe for concurrent access.
*/
package config
