// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of two or more word characters. Letters, digits,
// combining marks and underscore count as word characters, so "x-ray" yields
// only "ray" and "a1" survives.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]{2,}`)

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Analyzer turns a document into the list of terms counted by a Vectorizer.
type Analyzer struct {
	NGramMin       int
	NGramMax       int
	RemoveStopWord bool
}

// Analyze tokenizes doc, drops stop words and emits every n-gram in
// [NGramMin, NGramMax]. N-grams are built after stop word removal, so
// "rise of empires" produces the bigram "rise empires".
func (a Analyzer) Analyze(doc string) []string {
	tokens := Tokenize(doc)
	if a.RemoveStopWord {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !IsStopWord(tok) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	minN, maxN := a.NGramMin, a.NGramMax
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	if maxN == 1 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*(maxN-minN+1))
	if minN == 1 {
		terms = append(terms, tokens...)
		minN = 2
	}
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
