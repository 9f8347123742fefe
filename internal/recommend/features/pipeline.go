// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Corpus holds the per-field documents, one entry per item in row order.
type Corpus struct {
	Title       []string
	Description []string
	Cast        []string
	Genres      []string
}

// Len returns the number of items.
func (c Corpus) Len() int {
	return len(c.Title)
}

func (c Corpus) validate() error {
	n := len(c.Title)
	if len(c.Description) != n || len(c.Cast) != n || len(c.Genres) != n {
		return fmt.Errorf("column lengths differ: title=%d description=%d cast=%d genres=%d",
			n, len(c.Description), len(c.Cast), len(c.Genres))
	}
	if n == 0 {
		return errors.New("corpus is empty")
	}
	return nil
}

// Space is a fitted feature space: the per-field encoders and the combined,
// row-normalized item feature matrix.
type Space struct {
	Config      Config
	Title       *Vectorizer
	Description *Vectorizer
	Cast        *Vectorizer
	Genres      *Binarizer
	Matrix      *Matrix
}

// Dimensions returns the width of each block in concatenation order.
func (s *Space) Dimensions() (title, description, cast, genres int) {
	return len(s.Title.Vocabulary()), len(s.Description.Vocabulary()),
		len(s.Cast.Vocabulary()), len(s.Genres.Classes())
}

// Fit builds the feature space for corpus.
//
// The three text encoders are fit concurrently. Their blocks are scaled by the
// configured weights, concatenated as [title | description | cast | genres]
// and every row is L2-normalized. Rows with no known terms stay all-zero.
func Fit(ctx context.Context, cfg Config, corpus Corpus) (*Space, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature config: %w", err)
	}
	if err := corpus.validate(); err != nil {
		return nil, err
	}

	space := &Space{
		Config:      cfg,
		Title:       NewVectorizer(cfg.Title.Analyzer(), cfg.Title.MaxFeatures),
		Description: NewVectorizer(cfg.Description.Analyzer(), cfg.Description.MaxFeatures),
		Cast:        NewVectorizer(cfg.Cast.Analyzer(), cfg.Cast.MaxFeatures),
		Genres:      NewBinarizer(),
	}

	var titleM, descM, castM *Matrix
	g, gctx := errgroup.WithContext(ctx)
	fitField := func(name string, v *Vectorizer, docs []string, out **Matrix) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := v.FitTransform(docs)
			if err != nil {
				return fmt.Errorf("fit %s encoder: %w", name, err)
			}
			*out = m
			return nil
		})
	}
	fitField("title", space.Title, corpus.Title, &titleM)
	fitField("description", space.Description, corpus.Description, &descM)
	fitField("cast", space.Cast, corpus.Cast, &castM)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	labelSets := make([][]string, len(corpus.Genres))
	for i, s := range corpus.Genres {
		labelSets[i] = SplitLabels(s, cfg.GenreSeparator)
	}
	space.Genres.Fit(labelSets)
	genreM := space.Genres.Transform(labelSets)

	titleM.Scale(cfg.Title.Weight)
	descM.Scale(cfg.Description.Weight)
	castM.Scale(cfg.Cast.Weight)
	genreM.Scale(cfg.GenreWeight)

	combined, err := HStack(titleM, descM, castM, genreM)
	if err != nil {
		return nil, fmt.Errorf("combine feature blocks: %w", err)
	}
	combined.NormalizeRows()
	space.Matrix = combined

	return space, nil
}
