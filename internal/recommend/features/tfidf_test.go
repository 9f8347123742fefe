// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"x-ray A1 b", []string{"ray", "a1"}},
		{"Amélie", []string{"amélie"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analyzer Analyzer
		doc      string
		want     []string
	}{
		{
			name:     "bigrams formed after stop word removal",
			analyzer: Analyzer{NGramMin: 1, NGramMax: 2, RemoveStopWord: true},
			doc:      "Rise of the Empires",
			want:     []string{"rise", "empires", "rise empires"},
		},
		{
			name:     "unigrams keep stop words when disabled",
			analyzer: Analyzer{NGramMin: 1, NGramMax: 1},
			doc:      "the cooking show",
			want:     []string{"the", "cooking", "show"},
		},
		{
			name:     "bigrams only",
			analyzer: Analyzer{NGramMin: 2, NGramMax: 2},
			doc:      "sylvester stallone talia",
			want:     []string{"sylvester stallone", "stallone talia"},
		},
		{
			name:     "only stop words",
			analyzer: Analyzer{NGramMin: 1, NGramMax: 2, RemoveStopWord: true},
			doc:      "it is what it is",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.analyzer.Analyze(tt.doc)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Analyze(%q) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestVectorizer_FitTransform(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Analyzer{NGramMin: 1, NGramMax: 2, RemoveStopWord: true}, 0)
	m, err := v.FitTransform([]string{"Rocky", "Rocky II", "Cooking Show"})
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	wantVocab := []string{"cooking", "ii", "rocky", "rocky ii"}
	if !reflect.DeepEqual(v.Vocabulary(), wantVocab) {
		t.Fatalf("Vocabulary() = %v, want %v", v.Vocabulary(), wantVocab)
	}

	rare := math.Log(4.0/2.0) + 1
	common := math.Log(4.0/3.0) + 1
	wantIDF := []float64{rare, rare, common, rare}
	for i, w := range wantIDF {
		if math.Abs(v.IDF()[i]-w) > 1e-12 {
			t.Errorf("IDF()[%d] = %v, want %v", i, v.IDF()[i], w)
		}
	}

	idx, data := m.Row(0)
	if !reflect.DeepEqual(idx, []int{2}) || math.Abs(data[0]-1) > 1e-12 {
		t.Errorf("Row(0) = %v %v, want [2] [1]", idx, data)
	}

	idx, data = m.Row(1)
	if !reflect.DeepEqual(idx, []int{1, 2, 3}) {
		t.Fatalf("Row(1) indices = %v, want [1 2 3]", idx)
	}
	norm := math.Sqrt(rare*rare*2 + common*common)
	if math.Abs(data[1]-common/norm) > 1e-12 {
		t.Errorf("Row(1) rocky weight = %v, want %v", data[1], common/norm)
	}
	if got := m.RowNorm(1); math.Abs(got-1) > 1e-12 {
		t.Errorf("RowNorm(1) = %v, want 1", got)
	}
}

func TestVectorizer_MaxFeatures(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Analyzer{NGramMin: 1, NGramMax: 1}, 2)
	if err := v.Fit([]string{"bb aa", "aa cc"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// aa occurs twice; bb and cc tie and bb wins alphabetically.
	want := []string{"aa", "bb"}
	if !reflect.DeepEqual(v.Vocabulary(), want) {
		t.Errorf("Vocabulary() = %v, want %v", v.Vocabulary(), want)
	}
}

func TestVectorizer_OutOfVocabulary(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Analyzer{NGramMin: 1, NGramMax: 1}, 0)
	if err := v.Fit([]string{"alpha beta"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	m, err := v.Transform([]string{"gamma delta"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if m.NNZ() != 0 {
		t.Errorf("NNZ() = %d, want 0 for unknown terms", m.NNZ())
	}
}

func TestVectorizer_EmptyVocabulary(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Analyzer{NGramMin: 1, NGramMax: 2, RemoveStopWord: true}, 10)
	m, err := v.FitTransform([]string{"", "the"})
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if m.Rows != 2 || m.Cols != 0 {
		t.Errorf("shape = %dx%d, want 2x0", m.Rows, m.Cols)
	}
}

func TestVectorizer_NotFitted(t *testing.T) {
	t.Parallel()

	v := NewVectorizer(Analyzer{NGramMin: 1, NGramMax: 1}, 0)
	if _, err := v.Transform([]string{"x"}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform() error = %v, want ErrNotFitted", err)
	}
}

func TestRestoreVectorizer(t *testing.T) {
	t.Parallel()

	docs := []string{"space opera", "space western", "opera house"}
	analyzer := Analyzer{NGramMin: 1, NGramMax: 2}
	orig := NewVectorizer(analyzer, 0)
	want, err := orig.FitTransform(docs)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	restored, err := RestoreVectorizer(analyzer, 0, orig.Vocabulary(), orig.IDF())
	if err != nil {
		t.Fatalf("RestoreVectorizer() error = %v", err)
	}
	got, err := restored.Transform(docs)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restored Transform() = %+v, want %+v", got, want)
	}

	if _, err := RestoreVectorizer(Analyzer{}, 0, []string{"a"}, nil); err == nil {
		t.Error("RestoreVectorizer() with mismatched idf should fail")
	}
}

func TestSplitLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"Drama", []string{"Drama"}},
		{"Action|Drama", []string{"Action", "Drama"}},
		{" Action | |Drama|", []string{"Action", "Drama"}},
		{"", nil},
		{"||", nil},
	}

	for _, tt := range tests {
		got := SplitLabels(tt.in, "|")
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLabels(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBinarizer(t *testing.T) {
	t.Parallel()

	b := NewBinarizer()
	sets := [][]string{{"Drama"}, {"Drama", "Action", "Drama"}, nil}
	b.Fit(sets)

	if !reflect.DeepEqual(b.Classes(), []string{"Action", "Drama"}) {
		t.Fatalf("Classes() = %v, want [Action Drama]", b.Classes())
	}

	m := b.Transform(sets)
	idx, data := m.Row(1)
	if !reflect.DeepEqual(idx, []int{0, 1}) || !reflect.DeepEqual(data, []float64{1, 1}) {
		t.Errorf("Row(1) = %v %v, want [0 1] [1 1]", idx, data)
	}
	if idx, _ := m.Row(2); len(idx) != 0 {
		t.Errorf("Row(2) indices = %v, want empty", idx)
	}

	restored := RestoreBinarizer(b.Classes())
	if got := restored.Transform([][]string{{"Action", "Horror"}}); got.NNZ() != 1 {
		t.Errorf("restored Transform() NNZ = %d, want 1", got.NNZ())
	}
}
