// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package recommend

import (
	"errors"
	"reflect"
	"testing"
)

func TestFrameFromItems(t *testing.T) {
	t.Parallel()

	f := FrameFromItems(rockyItems())
	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	if !reflect.DeepEqual(f.IDs(), []int{1, 2, 3}) {
		t.Errorf("IDs() = %v, want [1 2 3]", f.IDs())
	}
	if !reflect.DeepEqual(f.Columns(), []string{"cast", "description", "genres", "title"}) {
		t.Errorf("Columns() = %v", f.Columns())
	}
	title, ok := f.Column(ColumnTitle)
	if !ok || title[1] != "Rocky II" {
		t.Errorf("Column(title) = %v, %v", title, ok)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestFrame_SetColumn(t *testing.T) {
	t.Parallel()

	f := NewFrame([]int{1, 2})
	if err := f.SetColumn("title", []string{"only one"}); err == nil {
		t.Error("SetColumn() with wrong length should fail")
	}
	if err := f.SetColumn("title", []string{"a", "b"}); err != nil {
		t.Errorf("SetColumn() error = %v", err)
	}
}

func TestFrame_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		frame       *Frame
		wantErr     error
		wantMissing []string
	}{
		{
			name:        "no columns",
			frame:       NewFrame([]int{1}),
			wantErr:     ErrSchema,
			wantMissing: RequiredColumns,
		},
		{
			name:    "no rows",
			frame:   FrameFromItems(nil),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duplicate ids",
			frame:   FrameFromItems([]Item{{ID: 4}, {ID: 4}}),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMissing != nil {
				var se *SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("error type = %T, want *SchemaError", err)
				}
				if !reflect.DeepEqual(se.Missing, tt.wantMissing) {
					t.Errorf("Missing = %v, want %v", se.Missing, tt.wantMissing)
				}
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	se := &SchemaError{Missing: []string{"cast", "genres"}}
	if got := se.Error(); got != "missing required fields: cast, genres" {
		t.Errorf("SchemaError.Error() = %q", got)
	}

	nf := &NotFoundError{ItemID: 12}
	if got := nf.Error(); got != "reference item 12 not found" {
		t.Errorf("NotFoundError.Error() = %q", got)
	}
	if errors.Is(nf, ErrSchema) || errors.Is(se, ErrNotFound) {
		t.Error("typed errors matched the wrong sentinel")
	}
}
