// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/tomtom215/opuscine/internal/api"
	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/llm"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/ott"
	"github.com/tomtom215/opuscine/internal/supervisor"
	"github.com/tomtom215/opuscine/internal/supervisor/services"
	"github.com/tomtom215/opuscine/internal/tmdb"
	"github.com/tomtom215/opuscine/internal/translate"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Caller:     cfg.Logging.Caller,
		Timestamp:  true,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Output:     os.Stderr,
	})
	defer func() { _ = logging.Close() }()

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("llm_enabled", cfg.LLM.Enabled).
		Msg("Starting OpusCine")

	if !cfg.TMDB.Configured() {
		logging.Warn().Msg("TMDB_API_KEY is not set; provider endpoints will answer 503")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := cache.Open(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open cache store")
	}

	store := catalog.NewStore(afero.NewOsFs(), cfg.Catalog.MoviesPath, cfg.Catalog.SeriesPath)
	loadResult := store.Load(ctx)
	if loadResult.Degraded {
		logging.Warn().Strs("errors", loadResult.Errors).Msg("Catalog loaded with errors")
	}

	provider, err := tmdb.New(cfg.TMDB)
	if err != nil {
		_ = kv.Close()
		logging.Fatal().Err(err).Msg("Failed to create metadata provider client")
	}

	registry := llm.NewRegistry(kv, cfg.LLM.BaseURL, cfg.Cache.OpTimeout)
	modelClient := llm.NewClient(llm.ConfigFrom(cfg.LLM), llm.WithEndpointSource(registry))

	var model translate.Model
	if modelClient.Enabled() {
		model = modelClient
	}
	translator := translate.New(translate.Options{
		Model:           model,
		DefaultLanguage: cfg.Translator.DefaultLanguage,
		DefaultSort:     cfg.Translator.DefaultSort,
		MemoTTL:         cfg.LLM.MemoTTL,
		ModelBudget:     cfg.LLM.AttemptBudget(),
		ProviderReserve: cfg.TMDB.Timeout,
	})
	defer translator.Close()

	resolver := ott.NewResolver(kv, store, ott.Options{
		CrossCollectionFallback: cfg.Catalog.CrossCollectionFallback,
		TTL:                     cfg.Cache.TTL,
	})

	handler := api.NewHandler(api.Deps{
		Config:     cfg,
		Catalog:    store,
		Cache:      kv,
		Resolver:   resolver,
		Translator: translator,
		TMDB:       provider,
		Model:      modelClient,
		Registry:   registry,
		Version:    version,
	})
	defer handler.Close()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler).SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout + time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		_ = kv.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Catalog.Watch {
		tree.AddDataService(services.NewCatalogWatchService(store, services.DefaultWatchDebounce))
		logging.Info().Msg("Catalog watcher added to supervisor tree")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err := kv.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing cache store")
	}
	logging.Info().Msg("OpusCine stopped")
}
