// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateModel,
		c.validateStorage,
		c.validateRateLimits,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.SlowRequestThreshold <= 0 {
		return fmt.Errorf("HTTP_SLOW_REQUEST_THRESHOLD must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// modelNamePattern keeps model names safe for use in storage keys.
var modelNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// validateModel validates model configuration
func (c *Config) validateModel() error {
	m := &c.Model
	if m.TopK < 1 {
		return fmt.Errorf("MODEL_TOP_K must be at least 1")
	}
	if m.DefaultTopN < 1 {
		return fmt.Errorf("MODEL_DEFAULT_TOP_N must be at least 1")
	}
	if m.MaxTopN < m.DefaultTopN {
		return fmt.Errorf("MODEL_MAX_TOP_N must be at least MODEL_DEFAULT_TOP_N")
	}
	if m.TrainInterval < 0 {
		return fmt.Errorf("MODEL_TRAIN_INTERVAL must not be negative")
	}
	if m.TrainInterval > 0 && m.TrainInterval < time.Minute {
		return fmt.Errorf("MODEL_TRAIN_INTERVAL must be at least 1m when enabled")
	}
	if m.TrainTimeout <= 0 {
		return fmt.Errorf("MODEL_TRAIN_TIMEOUT must be positive")
	}
	if (m.TrainOnStartup || m.TrainInterval > 0) && m.ItemsCSVPath == "" {
		return fmt.Errorf("ITEMS_CSV_PATH is required when startup or scheduled training is enabled")
	}
	if m.ModelName == "" || m.ModelName == "." || m.ModelName == ".." || !modelNamePattern.MatchString(m.ModelName) {
		return fmt.Errorf("MODEL_NAME must match %s", modelNamePattern.String())
	}
	if err := m.Features.Validate(); err != nil {
		return fmt.Errorf("model.features: %w", err)
	}
	return nil
}

// validateStorage validates model store configuration
func (c *Config) validateStorage() error {
	s := &c.Storage
	switch s.Backend {
	case BackendFile, BackendBadger:
		if s.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for the %s backend", s.Backend)
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
		if s.RedisDB < 0 {
			return errors.New("REDIS_DB must not be negative")
		}
	case BackendNone:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, badger, redis, none")
	}

	if s.Breaker.Enabled {
		if s.Breaker.FailureThreshold < 1 {
			return errors.New("storage.breaker.failure_threshold must be at least 1")
		}
		if s.Breaker.Timeout <= 0 {
			return errors.New("storage.breaker.timeout must be positive")
		}
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// HasWildcardCORS reports whether any CORS origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether the CORS setup deserves a startup warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.HasWildcardCORS()
}
