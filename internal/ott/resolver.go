// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package ott

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
	"github.com/tomtom215/opuscine/internal/models"
)

// DefaultTTL is the lifetime of a cached link list.
const DefaultTTL = 24 * time.Hour

// Tier names the source that answered a resolution.
type Tier string

const (
	TierCache   Tier = "cache"
	TierCatalog Tier = "catalog"
	TierMiss    Tier = "miss"
)

// KV is the subset of cache.Store the resolver needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options tunes a Resolver.
type Options struct {
	// CrossCollectionFallback makes every lookup search movies first and then
	// series, whatever kind was requested. It tolerates catalogs where the
	// numeric id spaces of the two collections overlap or are mis-tagged.
	CrossCollectionFallback bool

	// TTL for cache write-backs. Zero uses DefaultTTL.
	TTL time.Duration

	// WarmConcurrency bounds parallel writes during Warm. Zero uses 8.
	WarmConcurrency int
}

// Resolution is a resolved link list and the tier that produced it.
type Resolution struct {
	Links []models.OTTLinkRecord `json:"links"`
	Tier  Tier                   `json:"source"`
}

// WarmResult summarizes a Warm run.
type WarmResult struct {
	Movies  int `json:"movies"`
	Series  int `json:"series"`
	Written int `json:"written"`
	Failed  int `json:"failed"`
	Empty   int `json:"empty"`
}

// Resolver looks up OTT links cache-first, falling back to the catalog and
// writing catalog hits back to the cache.
type Resolver struct {
	kv      KV
	catalog *catalog.Store
	opts    Options
}

// NewResolver creates a Resolver. kv may be nil, which behaves like a cache
// that is always unreachable.
func NewResolver(kv KV, store *catalog.Store, opts Options) *Resolver {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.WarmConcurrency <= 0 {
		opts.WarmConcurrency = 8
	}
	return &Resolver{kv: kv, catalog: store, opts: opts}
}

// Key composes the cache key for a title.
func Key(kind models.MediaKind, id int) string {
	return string(kind) + ":" + strconv.Itoa(id) + ":ott_links"
}

// Resolve returns the links for (kind, id). It never fails; a title found
// nowhere yields an empty, non-nil slice.
func (r *Resolver) Resolve(ctx context.Context, kind models.MediaKind, id int) []models.OTTLinkRecord {
	return r.ResolveDetailed(ctx, kind, id).Links
}

// ResolveDetailed is Resolve plus the answering tier.
func (r *Resolver) ResolveDetailed(ctx context.Context, kind models.MediaKind, id int) Resolution {
	key := Key(kind, id)
	log := logging.Ctx(ctx).With().Str("key", key).Logger()

	links, reachable := r.fromCache(ctx, key, &log)
	if links != nil {
		metrics.RecordResolution(string(kind), string(TierCache))
		return Resolution{Links: links, Tier: TierCache}
	}

	snap := r.catalog.Snapshot()
	entry, foundAs, ok := snap.Search(kind, id, r.opts.CrossCollectionFallback)
	if !ok {
		metrics.RecordResolution(string(kind), string(TierMiss))
		return Resolution{Links: []models.OTTLinkRecord{}, Tier: TierMiss}
	}
	if foundAs != kind {
		log.Debug().Str("found_as", string(foundAs)).Msg("Resolved through cross-collection fallback")
	}

	links = Normalize(entry.RawLinks, 1)
	r.writeBack(ctx, key, links, reachable, &log)

	metrics.RecordResolution(string(kind), string(TierCatalog))
	return Resolution{Links: links, Tier: TierCatalog}
}

// fromCache returns the cached links, or nil on any kind of miss, and
// whether the cache answered at all.
func (r *Resolver) fromCache(ctx context.Context, key string, log *zerolog.Logger) ([]models.OTTLinkRecord, bool) {
	if r.kv == nil {
		return nil, false
	}

	data, err := r.kv.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrMiss):
		return nil, true
	case err != nil:
		log.Warn().Err(err).Msg("Cache unavailable, resolving from catalog")
		return nil, false
	}

	var links []models.OTTLinkRecord
	if err := json.Unmarshal(data, &links); err != nil {
		log.Warn().Err(err).Msg("Undecodable cached link list, treating as miss")
		return nil, true
	}
	if len(links) == 0 {
		return nil, true
	}
	return links, true
}

func (r *Resolver) writeBack(ctx context.Context, key string, links []models.OTTLinkRecord, reachable bool, log *zerolog.Logger) {
	if !reachable || len(links) == 0 {
		metrics.OTTCacheWrites.WithLabelValues("skipped").Inc()
		return
	}

	data, err := json.Marshal(links)
	if err != nil {
		log.Error().Err(err).Msg("Encode link list for cache")
		metrics.OTTCacheWrites.WithLabelValues("failure").Inc()
		return
	}
	if err := r.kv.Set(ctx, key, data, r.opts.TTL); err != nil {
		log.Warn().Err(err).Msg("Cache write-back failed")
		metrics.OTTCacheWrites.WithLabelValues("failure").Inc()
		return
	}
	metrics.OTTCacheWrites.WithLabelValues("success").Inc()
}

// Warm writes the normalized links of every catalog entry to the cache.
// Each key is best-effort; entries without links are not written. It
// returns ctx.Err() if cancelled part-way.
func (r *Resolver) Warm(ctx context.Context) (WarmResult, error) {
	snap := r.catalog.Snapshot()
	result := WarmResult{
		Movies: snap.Len(models.KindMovie),
		Series: snap.Len(models.KindTV),
	}
	if r.kv == nil {
		result.Failed = result.Movies + result.Series
		return result, errors.New("no cache configured")
	}

	var written, failed, empty atomic.Int64
	p := pool.New().WithMaxGoroutines(r.opts.WarmConcurrency)

	for _, kind := range []models.MediaKind{models.KindMovie, models.KindTV} {
		for _, entry := range snap.Entries(kind) {
			if ctx.Err() != nil {
				break
			}
			key := Key(kind, entry.ExternalID)
			raw := entry.RawLinks
			p.Go(func() {
				links := Normalize(raw, 1)
				if len(links) == 0 {
					empty.Add(1)
					return
				}
				data, err := json.Marshal(links)
				if err == nil {
					err = r.kv.Set(ctx, key, data, r.opts.TTL)
				}
				if err != nil {
					failed.Add(1)
					logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("Warm write failed")
					return
				}
				written.Add(1)
			})
		}
	}
	p.Wait()

	result.Written = int(written.Load())
	result.Failed = int(failed.Load())
	result.Empty = int(empty.Load())

	logging.Ctx(ctx).Info().
		Int("movies", result.Movies).
		Int("series", result.Series).
		Int("written", result.Written).
		Int("failed", result.Failed).
		Msg("Cache warm complete")

	return result, ctx.Err()
}
