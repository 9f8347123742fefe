// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"errors"
	"fmt"
)

// FieldConfig configures the TF-IDF encoder for one text field.
type FieldConfig struct {
	// MaxFeatures caps the vocabulary size. Zero means unlimited.
	MaxFeatures int `json:"max_features" koanf:"max_features"`

	// Weight scales the field's block before concatenation.
	Weight float64 `json:"weight" koanf:"weight"`

	// NGramMin and NGramMax bound the word n-gram lengths.
	NGramMin int `json:"ngram_min" koanf:"ngram_min"`
	NGramMax int `json:"ngram_max" koanf:"ngram_max"`

	// StopWords enables English stop word removal.
	StopWords bool `json:"stop_words" koanf:"stop_words"`
}

// Analyzer returns the analyzer described by the field config.
func (f FieldConfig) Analyzer() Analyzer {
	return Analyzer{
		NGramMin:       f.NGramMin,
		NGramMax:       f.NGramMax,
		RemoveStopWord: f.StopWords,
	}
}

func (f FieldConfig) validate(name string) error {
	if f.MaxFeatures < 0 {
		return fmt.Errorf("%s.max_features must be non-negative, got %d", name, f.MaxFeatures)
	}
	if f.Weight < 0 {
		return fmt.Errorf("%s.weight must be non-negative, got %f", name, f.Weight)
	}
	if f.NGramMin < 1 || f.NGramMax < f.NGramMin {
		return fmt.Errorf("%s: invalid ngram range [%d, %d]", name, f.NGramMin, f.NGramMax)
	}
	return nil
}

// Config contains the feature pipeline parameters.
type Config struct {
	Title       FieldConfig `json:"title" koanf:"title"`
	Description FieldConfig `json:"description" koanf:"description"`
	Cast        FieldConfig `json:"cast" koanf:"cast"`

	// GenreWeight scales the one-hot genre block.
	GenreWeight float64 `json:"genre_weight" koanf:"genre_weight"`

	// GenreSeparator delimits genres within the genres field. Default: "|"
	GenreSeparator string `json:"genre_separator" koanf:"genre_separator"`
}

// DefaultConfig returns the standard weighting: title 1.2, description 0.8,
// cast 1.6 and genre 0.7, with unigrams and bigrams and stop words removed.
func DefaultConfig() Config {
	field := func(maxFeatures int, weight float64) FieldConfig {
		return FieldConfig{
			MaxFeatures: maxFeatures,
			Weight:      weight,
			NGramMin:    1,
			NGramMax:    2,
			StopWords:   true,
		}
	}
	return Config{
		Title:          field(4000, 1.2),
		Description:    field(8000, 0.8),
		Cast:           field(6000, 1.6),
		GenreWeight:    0.7,
		GenreSeparator: "|",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Title.validate("title"); err != nil {
		return err
	}
	if err := c.Description.validate("description"); err != nil {
		return err
	}
	if err := c.Cast.validate("cast"); err != nil {
		return err
	}
	if c.GenreWeight < 0 {
		return fmt.Errorf("genre_weight must be non-negative, got %f", c.GenreWeight)
	}
	if c.GenreSeparator == "" {
		return errors.New("genre_separator must not be empty")
	}
	return nil
}
