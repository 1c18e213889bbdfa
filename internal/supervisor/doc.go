// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package supervisor provides process supervision for OpusCine using suture v4.

The tree:

	RootSupervisor ("opuscine")
	├── DataSupervisor ("data-layer")
	│   └── CatalogWatchService (if catalog.watch)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's failure decay and backoff. Supervisor
events are logged through sutureslog; main wires the slog logger to zerolog
with logging.NewSlogHandler.

Usage:

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Catalog.Watch {
	    tree.AddDataService(services.NewCatalogWatchService(store, services.DefaultWatchDebounce))
	}
	err = tree.Serve(ctx)

Cancelling ctx stops the HTTP server with http.Server.Shutdown, bounded by the
shutdown timeout. UnstoppedServiceReport lists services that did not stop in
time.
*/
package supervisor
