// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"sort"
	"strings"
)

// SplitLabels splits a delimited label string. Labels are whitespace
// trimmed and empty labels are dropped, so "" and "||" both yield nil.
func SplitLabels(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	labels := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

// Binarizer one-hot encodes label sets over the sorted set of labels seen at
// fit time. Unknown labels are ignored at transform time.
type Binarizer struct {
	classes []string
	index   map[string]int
}

// NewBinarizer creates an empty binarizer.
func NewBinarizer() *Binarizer {
	return &Binarizer{index: map[string]int{}}
}

// RestoreBinarizer rebuilds a fitted binarizer from its class list.
func RestoreBinarizer(classes []string) *Binarizer {
	b := NewBinarizer()
	b.setClasses(append([]string(nil), classes...))
	return b
}

func (b *Binarizer) setClasses(classes []string) {
	b.classes = classes
	b.index = make(map[string]int, len(classes))
	for i, c := range classes {
		b.index[c] = i
	}
}

// Fit collects the distinct labels.
func (b *Binarizer) Fit(labelSets [][]string) {
	seen := make(map[string]struct{})
	for _, set := range labelSets {
		for _, l := range set {
			seen[l] = struct{}{}
		}
	}
	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	sort.Strings(classes)
	b.setClasses(classes)
}

// Transform returns a 0/1 indicator matrix with one column per class.
func (b *Binarizer) Transform(labelSets [][]string) *Matrix {
	rb := newRowBuilder(len(labelSets), len(b.classes))
	for _, set := range labelSets {
		present := make(map[int]struct{}, len(set))
		for _, l := range set {
			if col, ok := b.index[l]; ok {
				present[col] = struct{}{}
			}
		}
		cols := make([]int, 0, len(present))
		for col := range present {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		data := make([]float64, len(cols))
		for k := range data {
			data[k] = 1
		}
		rb.appendRow(cols, data)
	}
	return rb.build()
}

// Classes returns the fitted labels in column order.
func (b *Binarizer) Classes() []string {
	return b.classes
}
