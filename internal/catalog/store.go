// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package catalog

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"

	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
	"github.com/tomtom215/opuscine/internal/models"
)

// ErrNotFound is returned by Lookup when no entry has the requested id.
var ErrNotFound = errors.New("catalog: entry not found")

// LoadResult summarizes one load or reload.
type LoadResult struct {
	Movies      int       `json:"movies"`
	Series      int       `json:"series"`
	MoviesFound bool      `json:"movies_found"`
	SeriesFound bool      `json:"series_found"`
	Skipped     int       `json:"skipped"`
	Degraded    bool      `json:"degraded"`
	Errors      []string  `json:"errors,omitempty"`
	LoadedAt    time.Time `json:"loaded_at"`
	DurationMS  int64     `json:"duration_ms"`
	Generation  uint64    `json:"generation"`
}

// Stats describes the active snapshot.
type Stats struct {
	Loaded      bool      `json:"loaded"`
	Movies      int       `json:"movies"`
	Series      int       `json:"series"`
	MoviesPath  string    `json:"movies_path"`
	SeriesPath  string    `json:"series_path"`
	MoviesFound bool      `json:"movies_file_exists"`
	SeriesFound bool      `json:"series_file_exists"`
	Skipped     int       `json:"skipped"`
	LoadedAt    time.Time `json:"loaded_at"`
	Generation  uint64    `json:"generation"`
}

// Snapshot is an immutable view of both collections. A Snapshot obtained
// from Store.Snapshot is never modified; reloads publish a new one.
type Snapshot struct {
	movies      *collection
	series      *collection
	moviesFound bool
	seriesFound bool
	loadedAt    time.Time
	generation  uint64
}

var emptySnapshot = &Snapshot{movies: emptyCollection(), series: emptyCollection()}

// Lookup finds id in the collection for kind.
func (s *Snapshot) Lookup(kind models.MediaKind, id int) (*models.CatalogEntry, bool) {
	c := s.movies
	if kind == models.KindTV {
		c = s.series
	}
	e, ok := c.byID[id]
	return e, ok
}

// Search looks id up for a request of the given kind. With crossCollection
// set, every request searches movies first and then series, regardless of
// kind. Otherwise only the kind's own collection is searched. The kind the
// entry was found under is returned.
func (s *Snapshot) Search(kind models.MediaKind, id int, crossCollection bool) (*models.CatalogEntry, models.MediaKind, bool) {
	if !crossCollection {
		e, ok := s.Lookup(kind, id)
		return e, kind, ok
	}
	if e, ok := s.movies.byID[id]; ok {
		return e, models.KindMovie, true
	}
	if e, ok := s.series.byID[id]; ok {
		return e, models.KindTV, true
	}
	return nil, "", false
}

// Entries returns the entries of kind in source-file order. The slice must
// not be modified.
func (s *Snapshot) Entries(kind models.MediaKind) []*models.CatalogEntry {
	if kind == models.KindTV {
		return s.series.entries
	}
	return s.movies.entries
}

// Len returns the number of entries of kind.
func (s *Snapshot) Len(kind models.MediaKind) int {
	return len(s.Entries(kind))
}

// Generation is 0 before the first load and increases by one per load.
func (s *Snapshot) Generation() uint64 { return s.generation }

// Store holds the bulk catalog in memory. Reads go through an atomically
// swapped Snapshot pointer and never block; loads are serialized.
type Store struct {
	fs         afero.Fs
	moviesPath string
	seriesPath string

	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
}

// NewStore creates a store reading moviesPath and seriesPath from fsys.
// It holds an empty snapshot until Load is called.
func NewStore(fsys afero.Fs, moviesPath, seriesPath string) *Store {
	s := &Store{fs: fsys, moviesPath: moviesPath, seriesPath: seriesPath}
	s.current.Store(emptySnapshot)
	return s
}

// Snapshot returns the active snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Loaded reports whether at least one load has completed.
func (s *Store) Loaded() bool {
	return s.current.Load().generation > 0
}

// Lookup finds id in the collection for kind in the active snapshot.
func (s *Store) Lookup(kind models.MediaKind, id int) (*models.CatalogEntry, error) {
	if e, ok := s.current.Load().Lookup(kind, id); ok {
		return e, nil
	}
	return nil, ErrNotFound
}

// Load reads both sources and publishes a new snapshot. It never fails:
//   - a missing file yields an empty collection and a degraded result
//   - a file that cannot be parsed keeps that collection from the previous
//     snapshot (empty on the first load) and marks the result degraded
//
// Load is idempotent and safe to call concurrently with readers, which see
// either the old or the new snapshot in full.
func (s *Store) Load(ctx context.Context) LoadResult {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	prev := s.current.Load()
	log := logging.Ctx(ctx)

	result := LoadResult{}

	movies, moviesFound, err := s.readSource(s.moviesPath, movieKeys)
	result.MoviesFound = moviesFound
	if err != nil {
		result.Degraded = true
		result.Errors = append(result.Errors, err.Error())
		log.Warn().Err(err).Str("path", s.moviesPath).Msg("Movie catalog unreadable, keeping previous collection")
		movies = prev.movies
	} else if !moviesFound {
		result.Degraded = true
		log.Warn().Str("path", s.moviesPath).Msg("Movie catalog file not found, using empty collection")
	}

	series, seriesFound, err := s.readSource(s.seriesPath, seriesKeys)
	result.SeriesFound = seriesFound
	if err != nil {
		result.Degraded = true
		result.Errors = append(result.Errors, err.Error())
		log.Warn().Err(err).Str("path", s.seriesPath).Msg("Series catalog unreadable, keeping previous collection")
		series = prev.series
	} else if !seriesFound {
		result.Degraded = true
		log.Warn().Str("path", s.seriesPath).Msg("Series catalog file not found, using empty collection")
	}

	next := &Snapshot{
		movies:      movies,
		series:      series,
		moviesFound: result.MoviesFound,
		seriesFound: result.SeriesFound,
		loadedAt:    time.Now().UTC(),
		generation:  prev.generation + 1,
	}
	s.current.Store(next)

	result.Movies = movies.len()
	result.Series = series.len()
	result.Skipped = movies.skipped + series.skipped
	result.LoadedAt = next.loadedAt
	result.DurationMS = time.Since(start).Milliseconds()
	result.Generation = next.generation

	metrics.RecordCatalogLoad(result.Movies, result.Series, result.Skipped, result.Degraded)

	log.Info().
		Int("movies", result.Movies).
		Int("series", result.Series).
		Int("skipped", result.Skipped).
		Bool("degraded", result.Degraded).
		Uint64("generation", result.Generation).
		Int64("duration_ms", result.DurationMS).
		Msg("Catalog loaded")

	return result
}

// Reload is Load under the name used by the admin surface.
func (s *Store) Reload(ctx context.Context) LoadResult {
	return s.Load(ctx)
}

// Stats describes the active snapshot.
func (s *Store) Stats() Stats {
	snap := s.current.Load()
	return Stats{
		Loaded:      snap.generation > 0,
		Movies:      snap.movies.len(),
		Series:      snap.series.len(),
		MoviesPath:  s.moviesPath,
		SeriesPath:  s.seriesPath,
		MoviesFound: snap.moviesFound,
		SeriesFound: snap.seriesFound,
		Skipped:     snap.movies.skipped + snap.series.skipped,
		LoadedAt:    snap.loadedAt,
		Generation:  snap.generation,
	}
}

// Paths returns the movie and series source paths.
func (s *Store) Paths() (movies, series string) {
	return s.moviesPath, s.seriesPath
}

// readSource returns found=false with a nil error when the file is absent.
func (s *Store) readSource(path string, keys []string) (*collection, bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyCollection(), false, nil
	}
	if err != nil {
		return nil, true, err
	}
	c, err := decodeCollection(path, data, keys)
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}
