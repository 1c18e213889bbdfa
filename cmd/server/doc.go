// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package main is the entry point for the OpusCine server.

OpusCine answers natural-language movie requests with provider discover
results, each movie annotated with the streaming (OTT) links found in the
link cache or the bulk catalog files.

# Application Architecture

	RootSupervisor ("opuscine")
	├── DataSupervisor ("data-layer")
	│   └── Catalog watcher (catalog.watch)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: koanf with defaults, config.yaml and environment
 2. Logging: zerolog, optionally rotated to a file
 3. Cache: Redis, Badger or in-memory behind a circuit breaker
 4. Catalog: bulk OTT files, loaded once; a missing file is an empty collection
 5. Provider client, model client and model endpoint registry
 6. Translator, OTT resolver and the HTTP handlers
 7. Supervisor tree

# Configuration

	Priority: Environment variables > Config file > Defaults

Common environment variables:

	PORT=8000
	TMDB_API_KEY=<key>             # provider calls answer 503 without it
	LLM_SERVER_URL=http://localhost:8001
	LLM_ENABLED=true
	CACHE_BACKEND=redis            # redis, badger or memory
	REDIS_HOST=localhost
	MOVIE_DATA_PATH=data/movie/tmdb_movies_hybrid_final.json
	TV_DATA_PATH="data/tv series/tmdb_tv_series_final.json"
	CATALOG_WATCH=false
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the tree. The HTTP server drains within
server.shutdown_timeout, then the cache store is closed.
*/
package main
