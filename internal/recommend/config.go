// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"fmt"

	"github.com/tomtom215/itemsim/internal/recommend/features"
)

// Config contains all configuration for the similarity engine.
type Config struct {
	// Features configures the per-field encoders and block weights.
	Features features.Config `json:"features"`

	// DefaultTopK is the neighbor count trainers use when a run does not
	// name one. Default: 50
	DefaultTopK int `json:"default_top_k"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Features:    features.DefaultConfig(),
		DefaultTopK: 50,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Features.Validate(); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be at least 1, got %d", c.DefaultTopK)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
