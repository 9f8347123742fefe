// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package index

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/tomtom215/itemsim/internal/recommend/features"
)

// unitMatrix builds a CSR matrix from dense rows and normalizes it.
func unitMatrix(rows [][]float64) *features.Matrix {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := &features.Matrix{Rows: len(rows), Cols: cols, Indptr: []int{0}}
	for _, r := range rows {
		for c, v := range r {
			if v != 0 {
				m.Indices = append(m.Indices, c)
				m.Data = append(m.Data, v)
			}
		}
		m.Indptr = append(m.Indptr, len(m.Data))
	}
	m.NormalizeRows()
	return m
}

func TestBuild(t *testing.T) {
	t.Parallel()

	m := unitMatrix([][]float64{{1, 0}})
	if _, err := Build(m, 0); err == nil {
		t.Error("Build() with k=0 should fail")
	}
	if _, err := Build(nil, 1); err == nil {
		t.Error("Build() with nil matrix should fail")
	}

	// k above the row count is allowed.
	idx, err := Build(m, 5)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got, err := idx.Query(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 || got[0].Row != 0 {
		t.Errorf("Query() = %+v, want only row 0", got)
	}
}

func TestIndex_Query(t *testing.T) {
	t.Parallel()

	m := unitMatrix([][]float64{
		{1, 0, 0},
		{1, 1, 0},
		{0, 0, 1},
		{1, 0.1, 0},
		{0, 0, 0},
	})
	idx, err := Build(m, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	wantRows := []int{0, 3, 1}
	if len(got) != len(wantRows) {
		t.Fatalf("Query() returned %d neighbors, want %d", len(got), len(wantRows))
	}
	for i, nb := range got {
		if nb.Row != wantRows[i] {
			t.Errorf("Query()[%d].Row = %d, want %d", i, nb.Row, wantRows[i])
		}
	}
	if got[0].Distance != 0 {
		t.Errorf("self distance = %v, want 0", got[0].Distance)
	}
	if math.Abs(got[2].Distance-(1-1/math.Sqrt2)) > 1e-12 {
		t.Errorf("distance to row 1 = %v, want %v", got[2].Distance, 1-1/math.Sqrt2)
	}
}

func TestIndex_QueryBeyondK(t *testing.T) {
	t.Parallel()

	m := unitMatrix([][]float64{{1, 0}, {0, 1}, {1, 1}, {1, 2}})
	idx, err := Build(m, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Query(n=10) returned %d neighbors, want all 4", len(got))
	}
}

func TestIndex_TiesBreakByRow(t *testing.T) {
	t.Parallel()

	// Rows 1, 2 and 4 duplicate row 0; row 3 is orthogonal.
	m := unitMatrix([][]float64{{1, 1}, {1, 1}, {1, 1}, {1, -1}, {1, 1}})
	idx, err := Build(m, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	rows := make([]int, len(got))
	for i, nb := range got {
		rows[i] = nb.Row
	}
	if !reflect.DeepEqual(rows, []int{0, 1, 2, 4, 3}) {
		t.Errorf("Query() rows = %v, want [0 1 2 4 3]", rows)
	}
}

func TestIndex_ZeroRow(t *testing.T) {
	t.Parallel()

	m := unitMatrix([][]float64{{0, 0}, {1, 0}})
	idx, err := Build(m, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := idx.Query(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, nb := range got {
		if nb.Distance != 1 {
			t.Errorf("distance from zero row to %d = %v, want 1", nb.Row, nb.Distance)
		}
	}
	if got[0].Row != 0 {
		t.Errorf("first tie = row %d, want 0", got[0].Row)
	}
}

func TestIndex_QueryErrors(t *testing.T) {
	t.Parallel()

	idx, err := Build(unitMatrix([][]float64{{1}}), 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := idx.Query(context.Background(), 1, 1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("Query(row=1) error = %v, want ErrRowOutOfRange", err)
	}
	if _, err := idx.Query(context.Background(), -1, 1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("Query(row=-1) error = %v, want ErrRowOutOfRange", err)
	}
	if _, err := idx.Query(context.Background(), 0, 0); !errors.Is(err, ErrInvalidN) {
		t.Errorf("Query(n=0) error = %v, want ErrInvalidN", err)
	}
}

// TestIndex_MatchesSequentialScan checks the chunked parallel scan against a
// plain full sort on a matrix large enough to span several chunks.
func TestIndex_MatchesSequentialScan(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	rows := make([][]float64, 3*minChunkRows+17)
	for i := range rows {
		r := make([]float64, 8)
		for c := range r {
			if rng.Intn(3) == 0 {
				r[c] = float64(rng.Intn(4))
			}
		}
		rows[i] = r
	}
	m := unitMatrix(rows)

	idx, err := Build(m, 10)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	idx.workers = 4

	const query, n = 42, 25
	got, err := idx.Query(context.Background(), query, n)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := make([]Neighbor, m.Rows)
	for r := 0; r < m.Rows; r++ {
		want[r] = Neighbor{Row: r, Distance: Distance(m.RowDot(query, r))}
	}
	sort.SliceStable(want, func(i, j int) bool { return want[i].Distance < want[j].Distance })
	want = want[:n]

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parallel Query() = %v\nwant %v", got, want)
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sim, want float64
	}{
		{1, 0},
		{1.0000000002, 0},
		{0, 1},
		{-1, 2},
		{-1.5, 2},
	}
	for _, tt := range tests {
		if got := Distance(tt.sim); got != tt.want {
			t.Errorf("Distance(%v) = %v, want %v", tt.sim, got, tt.want)
		}
	}
}
