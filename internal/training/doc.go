// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package training runs end-to-end training for the similarity engine.

A Trainer reads an items CSV through internal/ingest, fits the engine,
records training metrics and persists the result through a storage.Store.
It is shared by the HTTP train endpoint and the scheduled RecommendService,
so both paths log, measure and persist identically.

Every run carries a correlation ID in its context so log lines from ingest,
the engine and the store can be joined:

	res, err := trainer.Train(ctx, "/data/items.csv", 50)
	if err != nil {
	    code := training.ErrorCode(err) // e.g. "CSV_NOT_FOUND", "SCHEMA"
	}

On startup, LoadPersisted restores the last saved model, if any, before the
API starts serving.
*/
package training
