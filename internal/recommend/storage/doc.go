// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

// Package storage provides model persistence for the similarity engine.
//
// This package handles the serialization, compression, and storage of trained
// models. It lets a trained model survive restarts and lets several replicas
// share one model through a remote backend.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization of the explicit recommend.State layout
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//   - Pluggable backends: local files, BadgerDB, Redis
//   - A circuit breaker for remote backends
//
// # Storage Format
//
// Each model name maps to two keys:
//
//	models/{name}.gob.gz     envelope: format, metadata, gzip(gob(State))
//	models/{name}.meta.json  metadata copy for cheap inspection
//
// The State holds, per text field, the vocabulary in column order and the idf
// weight of each column; the sorted genre classes; the row to item id
// mapping; and the feature matrix as CSR arrays (indptr, indices, data).
// Loading a saved model yields query results identical to the model that
// was saved.
//
// # Usage Example
//
//	backend, err := storage.NewFileBackend("/data/models")
//	if err != nil {
//	    return err
//	}
//	store := storage.NewStore(backend, logger)
//
//	state, err := engine.Snapshot()
//	if err != nil {
//	    return err
//	}
//	meta, err := store.Save(ctx, "fast_item_cf", state, storage.ModelMetadata{})
//
// Loading a model:
//
//	state, meta, err := store.Load(ctx, "fast_item_cf")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // nothing saved yet
//	}
//	err = engine.Restore(state)
//
// # Thread Safety
//
// All types are safe for concurrent use. FileBackend writes through a
// temporary file and rename, so a crash mid-save leaves the previous model
// intact.
package storage
