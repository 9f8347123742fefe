// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotFitted is returned when a Vectorizer is used before Fit.
var ErrNotFitted = errors.New("vectorizer not fitted")

// Vectorizer converts documents into TF-IDF weighted term vectors.
//
// Fitting builds a vocabulary from the corpus, keeps at most MaxFeatures
// terms ranked by total corpus frequency (ties broken alphabetically), and
// computes smoothed inverse document frequencies:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Transform weights raw term counts by idf and L2-normalizes each row.
// Terms outside the vocabulary are ignored.
type Vectorizer struct {
	analyzer    Analyzer
	maxFeatures int

	vocabulary []string       // column -> term, sorted ascending
	index      map[string]int // term -> column
	idf        []float64
	fitted     bool
}

// NewVectorizer creates an unfitted vectorizer. maxFeatures <= 0 means no cap.
func NewVectorizer(analyzer Analyzer, maxFeatures int) *Vectorizer {
	return &Vectorizer{
		analyzer:    analyzer,
		maxFeatures: maxFeatures,
	}
}

// RestoreVectorizer rebuilds a fitted vectorizer from its vocabulary and idf
// weights, as produced by Vocabulary and IDF.
func RestoreVectorizer(analyzer Analyzer, maxFeatures int, vocabulary []string, idf []float64) (*Vectorizer, error) {
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("vocabulary size %d != idf size %d", len(vocabulary), len(idf))
	}
	v := NewVectorizer(analyzer, maxFeatures)
	v.setVocabulary(append([]string(nil), vocabulary...))
	v.idf = append([]float64(nil), idf...)
	v.fitted = true
	return v, nil
}

func (v *Vectorizer) setVocabulary(vocab []string) {
	v.vocabulary = vocab
	v.index = make(map[string]int, len(vocab))
	for i, term := range vocab {
		v.index[term] = i
	}
}

// Fit learns the vocabulary and idf weights from docs.
// A corpus with no usable terms yields an empty vocabulary.
func (v *Vectorizer) Fit(docs []string) error {
	counts := make([]map[string]int, len(docs))
	corpusFreq := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, term := range v.analyzer.Analyze(doc) {
			c[term]++
		}
		for term, n := range c {
			corpusFreq[term] += n
		}
		counts[i] = c
	}

	vocab := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	if v.maxFeatures > 0 && len(vocab) > v.maxFeatures {
		ranked := append([]string(nil), vocab...)
		sort.SliceStable(ranked, func(a, b int) bool {
			return corpusFreq[ranked[a]] > corpusFreq[ranked[b]]
		})
		vocab = ranked[:v.maxFeatures]
		sort.Strings(vocab)
	}
	v.setVocabulary(vocab)

	df := make([]int, len(vocab))
	for _, c := range counts {
		for term := range c {
			if col, ok := v.index[term]; ok {
				df[col]++
			}
		}
	}

	n := float64(len(docs))
	v.idf = make([]float64, len(vocab))
	for col, d := range df {
		v.idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}

	v.fitted = true
	return nil
}

// Transform maps docs into a len(docs) x len(Vocabulary) matrix.
func (v *Vectorizer) Transform(docs []string) (*Matrix, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}

	b := newRowBuilder(len(docs), len(v.vocabulary))
	for _, doc := range docs {
		tf := make(map[int]int)
		for _, term := range v.analyzer.Analyze(doc) {
			if col, ok := v.index[term]; ok {
				tf[col]++
			}
		}

		cols := make([]int, 0, len(tf))
		for col := range tf {
			cols = append(cols, col)
		}
		sort.Ints(cols)

		data := make([]float64, len(cols))
		var sumSq float64
		for k, col := range cols {
			w := float64(tf[col]) * v.idf[col]
			data[k] = w
			sumSq += w * w
		}
		if sumSq > 0 {
			norm := math.Sqrt(sumSq)
			for k := range data {
				data[k] /= norm
			}
		}
		b.appendRow(cols, data)
	}
	return b.build(), nil
}

// FitTransform is Fit followed by Transform on the same docs.
func (v *Vectorizer) FitTransform(docs []string) (*Matrix, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// Vocabulary returns the fitted terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	return v.vocabulary
}

// IDF returns the fitted idf weight per column.
func (v *Vectorizer) IDF() []float64 {
	return v.idf
}
