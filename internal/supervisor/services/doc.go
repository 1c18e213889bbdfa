// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package services provides suture.Service wrappers for OpusCine components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its events.

HTTP Server (HTTPServerService):
  - Wraps *http.Server; ListenAndServe runs until ctx is cancelled
  - Shutdown drains connections within the configured timeout
  - http.ErrServerClosed is not treated as a failure

Catalog Watcher (CatalogWatchService):
  - Watches both catalog files through koanf's file provider
  - Bursts of change events collapse into one reload after a quiet period
  - A file that cannot be watched is logged and skipped; if neither can be
    watched Serve returns an error and suture retries with backoff
*/
package services
