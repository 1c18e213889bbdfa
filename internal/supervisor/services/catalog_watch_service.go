// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/logging"
)

// DefaultWatchDebounce is the quiet period after the last change event
// before the catalog reloads.
const DefaultWatchDebounce = 2 * time.Second

// DefaultRewatchInterval is how often a file whose watch stopped, or that
// could not be watched, is tried again.
const DefaultRewatchInterval = 5 * time.Second

// CatalogReloader is satisfied by *catalog.Store.
type CatalogReloader interface {
	Reload(ctx context.Context) catalog.LoadResult
	Paths() (movies, series string)
}

// watchFunc registers onChange for changes to path and returns a function
// that stops watching. onError reports that the watch has ended.
type watchFunc func(path string, onChange func(), onError func(error)) (func() error, error)

type watchFailure struct {
	path string
	err  error
}

// CatalogWatchService reloads the catalog when either file changes.
type CatalogWatchService struct {
	store    CatalogReloader
	debounce time.Duration
	rewatch  time.Duration
	watch    watchFunc
	name     string
}

// NewCatalogWatchService creates the watcher. A non-positive debounce means
// DefaultWatchDebounce.
func NewCatalogWatchService(store CatalogReloader, debounce time.Duration) *CatalogWatchService {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &CatalogWatchService{
		store:    store,
		debounce: debounce,
		rewatch:  DefaultRewatchInterval,
		watch:    config.WatchFile,
		name:     "catalog-watcher",
	}
}

// Serve implements suture.Service.
//
// A file that is removed, or whose watch fails, is watched again once it
// can be, and its return counts as a change. Serve fails only when no file
// can be watched at start.
func (s *CatalogWatchService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)

	// One pending signal is enough; the reload reads both files.
	events := make(chan struct{}, 1)
	notify := func() {
		select {
		case events <- struct{}{}:
		default:
		}
	}
	failures := make(chan watchFailure)

	unwatchers := make(map[string]func() error, 2)
	defer func() {
		for _, unwatch := range unwatchers {
			_ = unwatch()
		}
	}()

	register := func(path string) error {
		unwatch, err := s.watch(path, notify, func(err error) {
			select {
			case failures <- watchFailure{path: path, err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return err
		}
		unwatchers[path] = unwatch
		return nil
	}

	moviesPath, seriesPath := s.store.Paths()
	pending := make(map[string]bool, 2)
	for _, path := range []string{moviesPath, seriesPath} {
		if path == "" {
			continue
		}
		if err := register(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Cannot watch catalog file, will retry")
			pending[path] = true
		}
	}
	if len(unwatchers) == 0 {
		return errors.New("catalog watcher: no catalog file could be watched")
	}

	logger.Info().
		Str("movies_path", moviesPath).
		Str("series_path", seriesPath).
		Dur("debounce", s.debounce).
		Msg("Watching catalog files")

	rewatch := time.NewTicker(s.rewatch)
	defer rewatch.Stop()

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-events:
			timer.Reset(s.debounce)
		case failure := <-failures:
			logger.Warn().Err(failure.err).Str("path", failure.path).Msg("Catalog file watch stopped, will retry")
			if unwatch, ok := unwatchers[failure.path]; ok {
				_ = unwatch()
				delete(unwatchers, failure.path)
			}
			pending[failure.path] = true
		case <-rewatch.C:
			for path := range pending {
				if err := register(path); err != nil {
					logger.Debug().Err(err).Str("path", path).Msg("Catalog file still not watchable")
					continue
				}
				delete(pending, path)
				logger.Info().Str("path", path).Msg("Watching catalog file again")
				notify()
			}
		case <-timer.C:
			result := s.store.Reload(ctx)
			logger.Info().
				Int("movies", result.Movies).
				Int("series", result.Series).
				Bool("degraded", result.Degraded).
				Uint64("generation", result.Generation).
				Msg("Catalog reloaded after file change")
		}
	}
}

// String implements fmt.Stringer.
func (s *CatalogWatchService) String() string {
	return s.name
}
