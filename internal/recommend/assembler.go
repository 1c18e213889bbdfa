// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package recommend

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/tomtom215/opuscine/internal/models"
)

// DefaultConcurrency bounds link resolution per request.
const DefaultConcurrency = 8

// LinkResolver answers streaming availability for a title. *ott.Resolver
// implements it.
type LinkResolver interface {
	Resolve(ctx context.Context, kind models.MediaKind, id int) []models.OTTLinkRecord
}

// ImageURLer builds artwork URLs. *tmdb.Client implements it.
type ImageURLer interface {
	ImageURL(path, size string) string
}

// MovieItem is a provider list item enriched for clients.
type MovieItem struct {
	models.Movie
	PosterURL   string                 `json:"poster_url"`
	BackdropURL string                 `json:"backdrop_url"`
	OTTLinks    []models.OTTLinkRecord `json:"ott_links"`
}

// Assembler enriches provider results.
type Assembler struct {
	resolver    LinkResolver
	images      ImageURLer
	concurrency int
}

// NewAssembler creates an Assembler. concurrency <= 0 uses
// DefaultConcurrency.
func NewAssembler(resolver LinkResolver, images ImageURLer, concurrency int) *Assembler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Assembler{resolver: resolver, images: images, concurrency: concurrency}
}

// Assemble returns one item per movie, in input order.
func (a *Assembler) Assemble(ctx context.Context, movies []models.Movie) []MovieItem {
	items := make([]MovieItem, len(movies))
	if len(movies) == 0 {
		return items
	}

	p := pool.New().WithMaxGoroutines(min(a.concurrency, len(movies)))
	for i := range movies {
		p.Go(func() {
			items[i] = a.item(ctx, movies[i])
		})
	}
	p.Wait()
	return items
}

// Item enriches a single movie.
func (a *Assembler) Item(ctx context.Context, movie models.Movie) MovieItem {
	return a.item(ctx, movie)
}

func (a *Assembler) item(ctx context.Context, movie models.Movie) MovieItem {
	if movie.GenreIDs == nil {
		movie.GenreIDs = []int{}
	}
	item := MovieItem{
		Movie:    movie,
		OTTLinks: []models.OTTLinkRecord{},
	}
	if a.images != nil {
		item.PosterURL = a.images.ImageURL(movie.PosterPath, "")
		item.BackdropURL = a.images.ImageURL(movie.BackdropPath, "")
	}
	if a.resolver != nil && movie.ID > 0 && ctx.Err() == nil {
		if links := a.resolver.Resolve(ctx, models.KindMovie, movie.ID); links != nil {
			item.OTTLinks = links
		}
	}
	return item
}
