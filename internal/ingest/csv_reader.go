// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	// DuckDB driver - read_csv does the CSV parsing
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/itemsim/internal/recommend"
)

// ColumnItemID is the id column of an items CSV.
const ColumnItemID = "item_id"

// CSVRequiredColumns lists the columns an items CSV must contain.
var CSVRequiredColumns = []string{
	ColumnItemID,
	recommend.ColumnTitle,
	recommend.ColumnDescription,
	recommend.ColumnGenres,
}

// ErrCSVNotFound is returned when the items CSV does not exist.
var ErrCSVNotFound = errors.New("items csv not found")

// Stats summarizes one CSV load.
type Stats struct {
	RowsRead     int           `json:"rows_read"`
	RowsKept     int           `json:"rows_kept"`
	InvalidIDs   int           `json:"invalid_ids"`
	DuplicateIDs int           `json:"duplicate_ids"`
	Columns      []string      `json:"columns"`
	Duration     time.Duration `json:"duration"`
}

// CSVReader reads item catalogs through an in-memory DuckDB connection.
type CSVReader struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCSVReader opens the DuckDB connection used for parsing.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVReader(logger zerolog.Logger) (*CSVReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// One connection keeps the in-memory database single and the row order stable.
	db.SetMaxOpenConns(1)

	return &CSVReader{
		db:     db,
		logger: logger.With().Str("component", "ingest").Logger(),
	}, nil
}

// Close releases the DuckDB connection.
func (r *CSVReader) Close() error {
	return r.db.Close()
}

// ReadItems loads the CSV at path into a frame. Missing required columns
// produce a *recommend.SchemaError.
func (r *CSVReader) ReadItems(ctx context.Context, path string) (*recommend.Frame, *Stats, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrCSVNotFound, path)
		}
		return nil, nil, fmt.Errorf("stat items csv: %w", err)
	}

	source := fmt.Sprintf("read_csv(%s, header = true, all_varchar = true)", quoteLiteral(path))

	columns, err := r.columns(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range CSVRequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &recommend.SchemaError{Missing: missing}
	}

	textColumns := make([]string, 0, len(recommend.RequiredColumns))
	for _, c := range recommend.RequiredColumns {
		if present[c] {
			textColumns = append(textColumns, c)
		}
	}

	selected := make([]string, 0, len(textColumns)+1)
	selected = append(selected, quoteIdent(ColumnItemID))
	for _, c := range textColumns {
		selected = append(selected, quoteIdent(c))
	}
	query := "SELECT " + strings.Join(selected, ", ") + " FROM " + source //nolint:gosec // identifiers and path are quoted

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("read items csv: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read errors are reported by rows.Err

	stats := &Stats{Columns: columns}
	var ids []int
	values := make([][]string, len(textColumns))
	seen := make(map[int]struct{})

	raw := make([]sql.NullString, len(selected))
	dest := make([]any, len(selected))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("scan items csv row: %w", err)
		}
		stats.RowsRead++

		id, ok := parseItemID(raw[0])
		if !ok {
			stats.InvalidIDs++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateIDs++
			continue
		}
		seen[id] = struct{}{}

		ids = append(ids, id)
		for i := range textColumns {
			values[i] = append(values[i], raw[i+1].String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read items csv: %w", err)
	}

	frame := recommend.NewFrame(ids)
	for i, c := range textColumns {
		col := values[i]
		if col == nil {
			col = []string{}
		}
		if err := frame.SetColumn(c, col); err != nil {
			return nil, nil, err
		}
	}

	stats.RowsKept = len(ids)
	stats.Duration = time.Since(start)

	r.logger.Info().
		Str("path", path).
		Int("rows_read", stats.RowsRead).
		Int("rows_kept", stats.RowsKept).
		Int("invalid_ids", stats.InvalidIDs).
		Int("duplicate_ids", stats.DuplicateIDs).
		Dur("duration", stats.Duration).
		Msg("items csv loaded")

	return frame, stats, nil
}

// columns returns the header of source without reading any rows.
func (r *CSVReader) columns(ctx context.Context, source string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+source+" LIMIT 0") //nolint:gosec // path is quoted
	if err != nil {
		return nil, fmt.Errorf("read items csv header: %w", err)
	}
	defer rows.Close() //nolint:errcheck // header read has no rows to fail on

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read items csv header: %w", err)
	}
	return cols, nil
}

// ReadItems loads an items CSV with a short-lived reader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ReadItems(ctx context.Context, path string, logger zerolog.Logger) (*recommend.Frame, *Stats, error) {
	r, err := NewCSVReader(logger)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close() //nolint:errcheck // read-only connection

	return r.ReadItems(ctx, path)
}

// parseItemID accepts integer and float notation and truncates toward zero.
func parseItemID(v sql.NullString) (int, bool) {
	if !v.Valid {
		return 0, false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
