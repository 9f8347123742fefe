// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package services provides suture.Service wrappers for ItemSim components.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Returns listener errors so the supervisor restarts it

Training (TrainingService):
  - Trains once on startup when TrainOnStartup is set
  - Retrains every TrainInterval when it is positive
  - Gives every run a fresh correlation ID and a Timeout
  - Logs failures and keeps running; the last good model stays published

A run that collides with an API-triggered training is skipped and logged,
not retried.
*/
package services
