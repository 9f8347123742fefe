// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"fmt"
	"sort"
)

// Column names of the training schema.
const (
	ColumnTitle       = "title"
	ColumnDescription = "description"
	ColumnCast        = "cast"
	ColumnGenres      = "genres"
)

// RequiredColumns lists the columns Fit needs, in feature block order.
var RequiredColumns = []string{ColumnTitle, ColumnDescription, ColumnCast, ColumnGenres}

// Frame is a column-oriented collection of catalog items. Row i of every
// column belongs to IDs()[i]. Ingestion builds frames; Fit consumes them.
type Frame struct {
	ids     []int
	columns map[string][]string
}

// NewFrame creates a frame with the given item ids and no columns.
func NewFrame(ids []int) *Frame {
	return &Frame{
		ids:     append([]int(nil), ids...),
		columns: make(map[string][]string),
	}
}

// FrameFromItems builds a frame with every schema column populated.
func FrameFromItems(items []Item) *Frame {
	ids := make([]int, len(items))
	title := make([]string, len(items))
	desc := make([]string, len(items))
	cast := make([]string, len(items))
	genres := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
		title[i] = it.Title
		desc[i] = it.Description
		cast[i] = it.Cast
		genres[i] = it.Genres
	}

	f := &Frame{ids: ids, columns: make(map[string][]string, 4)}
	f.columns[ColumnTitle] = title
	f.columns[ColumnDescription] = desc
	f.columns[ColumnCast] = cast
	f.columns[ColumnGenres] = genres
	return f
}

// SetColumn adds or replaces a column. values must have one entry per id.
func (f *Frame) SetColumn(name string, values []string) error {
	if len(values) != len(f.ids) {
		return fmt.Errorf("column %q has %d values, want %d", name, len(values), len(f.ids))
	}
	f.columns[name] = values
	return nil
}

// Column returns the named column.
func (f *Frame) Column(name string) ([]string, bool) {
	c, ok := f.columns[name]
	return c, ok
}

// Columns returns the column names in sorted order.
func (f *Frame) Columns() []string {
	names := make([]string, 0, len(f.columns))
	for name := range f.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IDs returns the item ids in row order.
func (f *Frame) IDs() []int {
	return f.ids
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.ids)
}

// Validate checks the frame against the training schema. Missing columns
// produce a *SchemaError naming all of them.
func (f *Frame) Validate() error {
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := f.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}

	if len(f.ids) == 0 {
		return invalidInput("frame has no rows")
	}

	seen := make(map[int]struct{}, len(f.ids))
	for _, id := range f.ids {
		if _, dup := seen[id]; dup {
			return invalidInput("duplicate item id %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
