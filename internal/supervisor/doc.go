// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

/*
Package supervisor provides process supervision for ItemSim using suture v4.

The supervisor tree manages every long-running service in the process with
Erlang/OTP-style restart, failure isolation and graceful shutdown:

	RootSupervisor ("itemsim")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainingService (startup and scheduled retraining)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing training job backs off inside its own layer; the HTTP server keeps
serving the last published model.

# Events

Supervisor events are logged through sutureslog. Pass a *slog.Logger backed
by zerolog so they share the application's log format:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())

Service restarts are also counted in supervisor_service_restarts_total.

# Usage

	tree.AddTrainingService(services.NewTrainingService(trainer, trainCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Services live in the services subpackage.
*/
package supervisor
