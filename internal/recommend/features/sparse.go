// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package features

import (
	"fmt"
	"math"
)

// Matrix is a compressed sparse row (CSR) matrix of float64 values.
//
// Row i occupies Indices[Indptr[i]:Indptr[i+1]] and Data[Indptr[i]:Indptr[i+1]].
// Column indices within a row are strictly increasing. The layout is the
// persisted representation of the item feature matrix, so the fields are
// exported and carry no hidden state.
type Matrix struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float64
}

// NewMatrix returns an empty rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		Rows:   rows,
		Cols:   cols,
		Indptr: make([]int, rows+1),
	}
}

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int {
	return len(m.Data)
}

// Row returns the column indices and values of row i.
// The returned slices alias the matrix storage and must not be modified.
func (m *Matrix) Row(i int) (indices []int, data []float64) {
	start, end := m.Indptr[i], m.Indptr[i+1]
	return m.Indices[start:end], m.Data[start:end]
}

// Validate checks the structural invariants of the CSR layout.
func (m *Matrix) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("negative shape %dx%d", m.Rows, m.Cols)
	}
	if len(m.Indptr) != m.Rows+1 {
		return fmt.Errorf("indptr length %d, want %d", len(m.Indptr), m.Rows+1)
	}
	if len(m.Indices) != len(m.Data) {
		return fmt.Errorf("indices length %d != data length %d", len(m.Indices), len(m.Data))
	}
	if m.Indptr[0] != 0 || m.Indptr[m.Rows] != len(m.Data) {
		return fmt.Errorf("indptr bounds [%d, %d], want [0, %d]", m.Indptr[0], m.Indptr[m.Rows], len(m.Data))
	}
	for i := 0; i < m.Rows; i++ {
		start, end := m.Indptr[i], m.Indptr[i+1]
		if end < start {
			return fmt.Errorf("indptr decreases at row %d", i)
		}
		prev := -1
		for _, col := range m.Indices[start:end] {
			if col <= prev || col >= m.Cols {
				return fmt.Errorf("row %d: column %d out of order or range", i, col)
			}
			prev = col
		}
	}
	return nil
}

// RowNorm returns the Euclidean norm of row i.
func (m *Matrix) RowNorm(i int) float64 {
	_, data := m.Row(i)
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// RowDot returns the dot product of rows i and j.
func (m *Matrix) RowDot(i, j int) float64 {
	ai, ad := m.Row(i)
	bi, bd := m.Row(j)
	return sparseDot(ai, ad, bi, bd)
}

// sparseDot merges two sorted index lists.
func sparseDot(ai []int, ad []float64, bi []int, bd []float64) float64 {
	var sum float64
	p, q := 0, 0
	for p < len(ai) && q < len(bi) {
		switch {
		case ai[p] == bi[q]:
			sum += ad[p] * bd[q]
			p++
			q++
		case ai[p] < bi[q]:
			p++
		default:
			q++
		}
	}
	return sum
}

// Scale multiplies every stored value by w in place.
func (m *Matrix) Scale(w float64) {
	for i := range m.Data {
		m.Data[i] *= w
	}
}

// NormalizeRows scales each row to unit L2 norm in place.
// All-zero rows are left untouched.
func (m *Matrix) NormalizeRows() {
	for i := 0; i < m.Rows; i++ {
		norm := m.RowNorm(i)
		if norm == 0 {
			continue
		}
		for k := m.Indptr[i]; k < m.Indptr[i+1]; k++ {
			m.Data[k] /= norm
		}
	}
}

// HStack concatenates matrices column-wise. All blocks must have the same
// number of rows. Column offsets follow the argument order.
func HStack(blocks ...*Matrix) (*Matrix, error) {
	if len(blocks) == 0 {
		return NewMatrix(0, 0), nil
	}

	rows := blocks[0].Rows
	cols, nnz := 0, 0
	for i, b := range blocks {
		if b.Rows != rows {
			return nil, fmt.Errorf("block %d has %d rows, want %d", i, b.Rows, rows)
		}
		cols += b.Cols
		nnz += b.NNZ()
	}

	out := &Matrix{
		Rows:    rows,
		Cols:    cols,
		Indptr:  make([]int, rows+1),
		Indices: make([]int, 0, nnz),
		Data:    make([]float64, 0, nnz),
	}

	for r := 0; r < rows; r++ {
		offset := 0
		for _, b := range blocks {
			idx, data := b.Row(r)
			for k, col := range idx {
				out.Indices = append(out.Indices, col+offset)
				out.Data = append(out.Data, data[k])
			}
			offset += b.Cols
		}
		out.Indptr[r+1] = len(out.Data)
	}

	return out, nil
}

// rowBuilder accumulates a CSR matrix one row at a time.
type rowBuilder struct {
	m *Matrix
}

func newRowBuilder(rows, cols int) *rowBuilder {
	m := NewMatrix(rows, cols)
	m.Indptr = m.Indptr[:1]
	return &rowBuilder{m: m}
}

// appendRow adds a row whose indices are already sorted ascending.
func (b *rowBuilder) appendRow(indices []int, data []float64) {
	b.m.Indices = append(b.m.Indices, indices...)
	b.m.Data = append(b.m.Data, data...)
	b.m.Indptr = append(b.m.Indptr, len(b.m.Data))
}

func (b *rowBuilder) build() *Matrix {
	return b.m
}
