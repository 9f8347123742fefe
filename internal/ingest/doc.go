// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package ingest loads item catalogs from CSV files into recommend.Frame values.
//
// CSV parsing is delegated to DuckDB's read_csv table function running on an
// in-memory connection. Every column is read as VARCHAR so ids and text are
// cleaned here rather than by DuckDB's type sniffer.
//
// # Cleaning Rules
//
//   - The file must contain item_id, title, description and genres
//   - cast is optional at this layer; the engine rejects frames without it
//   - Rows whose item_id is null or non-numeric are dropped
//   - Numeric ids with a fractional part are truncated ("12.0" becomes 12)
//   - For duplicate ids the first row wins
//   - Null text fields become the empty string
//
// # Example Usage
//
//	reader, err := ingest.NewCSVReader(logger)
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	frame, stats, err := reader.ReadItems(ctx, "/data/items.csv")
//	if err != nil {
//	    return err
//	}
//	_, err = engine.Fit(ctx, frame, 50)
package ingest
