// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package index provides exact nearest-neighbor search by cosine distance
// over the rows of a sparse feature matrix.
//
// Every query is a full scan. Rows are scored in parallel chunks and the
// best n are selected with a bounded heap, so results are identical to a
// sequential scan: ascending distance, ties broken by ascending row.
package index

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/itemsim/internal/recommend/features"
)

// minChunkRows keeps small matrices on a single goroutine.
const minChunkRows = 2048

var (
	// ErrRowOutOfRange is returned for a query row outside the matrix.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrInvalidN is returned when fewer than one neighbor is requested.
	ErrInvalidN = errors.New("n must be at least 1")
)

// Neighbor is one query result.
type Neighbor struct {
	Row      int
	Distance float64
}

// Index is an immutable brute-force cosine index. It is safe for concurrent use.
type Index struct {
	matrix  *features.Matrix
	workers int
}

// Build creates an index over matrix. k is the model's neighbor count and
// must be positive; Query still accepts any n.
func Build(matrix *features.Matrix, k int) (*Index, error) {
	if matrix == nil {
		return nil, errors.New("matrix is nil")
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	return &Index{
		matrix:  matrix,
		workers: runtime.GOMAXPROCS(0),
	}, nil
}

// Query returns up to n rows nearest to row, ordered by ascending cosine
// distance with ties broken by ascending row index. The query row itself is
// included in the results.
func (idx *Index) Query(ctx context.Context, row, n int) ([]Neighbor, error) {
	if row < 0 || row >= idx.matrix.Rows {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	if n < 1 {
		return nil, ErrInvalidN
	}
	if n > idx.matrix.Rows {
		n = idx.matrix.Rows
	}

	query := idx.dense(row)
	chunks := idx.chunks()
	partial := make([][]Neighbor, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for c, bounds := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial[c] = idx.scan(query, bounds[0], bounds[1], n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Neighbor, 0, n*len(partial))
	for _, p := range partial {
		merged = append(merged, p...)
	}
	sortNeighbors(merged)
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged, nil
}

// dense scatters a row into a dense vector for fast dot products.
func (idx *Index) dense(row int) []float64 {
	vec := make([]float64, idx.matrix.Cols)
	cols, data := idx.matrix.Row(row)
	for k, c := range cols {
		vec[c] = data[k]
	}
	return vec
}

func (idx *Index) chunks() [][2]int {
	rows := idx.matrix.Rows
	workers := idx.workers
	if limit := (rows + minChunkRows - 1) / minChunkRows; workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}

	size := (rows + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for start := 0; start < rows; start += size {
		end := start + size
		if end > rows {
			end = rows
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// scan scores rows [start, end) and keeps the best n.
func (idx *Index) scan(query []float64, start, end, n int) []Neighbor {
	h := make(neighborHeap, 0, n)
	for r := start; r < end; r++ {
		cols, data := idx.matrix.Row(r)
		var sim float64
		for k, c := range cols {
			sim += data[k] * query[c]
		}
		nb := Neighbor{Row: r, Distance: Distance(sim)}

		if len(h) < n {
			heap.Push(&h, nb)
			continue
		}
		if less(nb, h[0]) {
			h[0] = nb
			heap.Fix(&h, 0)
		}
	}
	return h
}

// Distance converts a cosine similarity into a distance clamped to [0, 2].
func Distance(similarity float64) float64 {
	d := 1 - similarity
	switch {
	case d < 0:
		return 0
	case d > 2:
		return 2
	default:
		return d
	}
}

func less(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(i, j int) bool { return less(ns[i], ns[j]) })
}

// neighborHeap is a max-heap on (distance, row) so the worst kept neighbor
// sits at the root.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return less(h[j], h[i]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(Neighbor))
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
