// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package main is the entry point for the ItemSim server.

ItemSim trains a content-based item similarity model from a CSV catalog
(title, description, cast, genres) and serves nearest-neighbor
recommendations and pairwise scores over HTTP.

# Application Architecture

	RootSupervisor ("itemsim")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainingService (optional startup and scheduled retraining)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Engine: feature and index configuration from the model section
 4. Model store: file, badger or redis backend (redis behind a circuit breaker)
 5. Restore: the last persisted model, if any, is published before serving
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

Priority: Environment variables > Config file (CONFIG_PATH) > Defaults

	# Server
	HTTP_HOST=0.0.0.0
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Model
	MODEL_TOP_K=50
	ITEMS_CSV_PATH=/data/items.csv
	MODEL_TRAIN_ON_STARTUP=false
	MODEL_TRAIN_INTERVAL=0       # e.g. 24h; 0 disables scheduled retraining
	MODEL_NAME=fast_item_cf

	# Persistence
	STORAGE_BACKEND=file         # file, badger, redis or none
	STORAGE_PATH=/data/models
	REDIS_ADDR=localhost:6379

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to 10s; a running training job is abandoned and
the previously published model is left in place.

# Example

	export ITEMS_CSV_PATH=/data/items.csv
	export MODEL_TRAIN_ON_STARTUP=true
	./itemsim

	curl 'localhost:8000/api/v1/recommend?reference_item_id=42&top_n=5'
*/
package main
