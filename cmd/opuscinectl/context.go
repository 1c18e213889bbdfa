// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/catalog"
	"github.com/tomtom215/opuscine/internal/config"
	"github.com/tomtom215/opuscine/internal/llm"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/ott"
	"github.com/tomtom215/opuscine/internal/tmdb"
	"github.com/tomtom215/opuscine/internal/translate"
)

// commandContext builds components lazily; most commands need only a few.
type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	store *catalog.Store
	kv    *cache.GuardedStore
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		var cfg *config.Config
		var err error
		if path == "" {
			cfg, err = config.LoadWithKoanf()
		} else {
			cfg, err = config.LoadFile(path)
		}
		if err != nil {
			c.configErr = err
			return
		}
		// Component logs go to stderr and stay out of table output.
		logging.Init(logging.Config{Level: "warn", Format: "console", Timestamp: true})
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) catalog(ctx context.Context) (*catalog.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.store = catalog.NewStore(afero.NewOsFs(), cfg.Catalog.MoviesPath, cfg.Catalog.SeriesPath)
	c.store.Load(ctx)
	return c.store, nil
}

func (c *commandContext) cache() (*cache.GuardedStore, error) {
	if c.kv != nil {
		return c.kv, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	kv, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, err
	}
	c.kv = kv
	return kv, nil
}

func (c *commandContext) resolver(ctx context.Context) (*ott.Resolver, error) {
	store, err := c.catalog(ctx)
	if err != nil {
		return nil, err
	}
	kv, err := c.cache()
	if err != nil {
		return nil, err
	}
	return ott.NewResolver(kv, store, ott.Options{
		CrossCollectionFallback: c.config.Catalog.CrossCollectionFallback,
		TTL:                     c.config.Cache.TTL,
	}), nil
}

// translator returns a rule-only translator when rulesOnly is set or the
// model path is disabled. The model endpoint honours a registered URL when
// the cache is reachable.
func (c *commandContext) translator(rulesOnly bool) (*translate.Translator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := translate.Options{
		DefaultLanguage: cfg.Translator.DefaultLanguage,
		DefaultSort:     cfg.Translator.DefaultSort,
		ModelBudget:     cfg.LLM.AttemptBudget(),
	}
	if !rulesOnly && cfg.LLM.Enabled {
		var clientOpts []llm.Option
		if kv, err := c.cache(); err == nil {
			clientOpts = append(clientOpts, llm.WithEndpointSource(llm.NewRegistry(kv, cfg.LLM.BaseURL, cfg.Cache.OpTimeout)))
		}
		opts.Model = llm.NewClient(llm.ConfigFrom(cfg.LLM), clientOpts...)
	}
	return translate.New(opts), nil
}

func (c *commandContext) provider() (*tmdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return tmdb.New(cfg.TMDB)
}

func (c *commandContext) close() error {
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}
