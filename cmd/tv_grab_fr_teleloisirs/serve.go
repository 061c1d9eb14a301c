// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/tlgrab/internal/api"
	"github.com/ManuGH/tlgrab/internal/cache"
	"github.com/ManuGH/tlgrab/internal/config"
	"github.com/ManuGH/tlgrab/internal/health"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/store"
	"github.com/ManuGH/tlgrab/internal/version"
)

const checkTimeout = 2 * time.Second

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet(grabberName+" serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional YAML application configuration")
	listen := fs.String("listen", "", "listen address (default from configuration)")
	xmltvPath := fs.String("xmltv", "", "guide file to serve (default from configuration)")
	if err := fs.Parse(args); err != nil {
		return fail(xglog.WithComponent("cli"), "cli.usage", "invalid arguments", fmt.Errorf("%w: %w", errUsage, err))
	}

	a, err := setup(*configPath, "", stderr)
	if err != nil {
		return fail(xglog.WithComponent("cli"), "config.load_failed", "failed to load configuration", err)
	}
	defer a.stop()

	if *listen != "" {
		a.cfg.Server.Listen = *listen
	}
	if *xmltvPath != "" {
		a.cfg.Server.XMLTVPath = *xmltvPath
	}

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewXMLTVChecker(a.cfg.Server.XMLTVPath))

	c, err := newCache(a.ctx, a)
	if err != nil {
		return fail(a.logger, "cache.init_failed", "failed to initialise the response cache", err)
	}
	defer func() { _ = c.Close() }()
	if rc, ok := c.(*cache.RedisCache); ok {
		hm.RegisterChecker(health.NewFuncChecker("cache", checkTimeout, rc.HealthCheck))
	}

	var programmes api.ProgrammeStore
	if a.cfg.Store.Path != "" {
		st, err := store.Open(a.ctx, a.cfg.Store.Path)
		if err != nil {
			return fail(a.logger, "store.open_failed", "failed to open the store", err)
		}
		defer func() { _ = st.Close() }()
		hm.RegisterChecker(health.NewFuncChecker("store", checkTimeout, st.Ping))
		programmes = st
	}

	if w, err := api.NewWatcher(a.cfg.Server.XMLTVPath, c); err != nil {
		a.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "watcher.disabled").
			Msg("guide changes will not invalidate the response cache")
	} else {
		go w.Run(a.ctx)
	}

	srv := api.New(api.Config{
		XMLTVPath:      a.cfg.Server.XMLTVPath,
		CacheTTL:       a.cfg.Server.CacheTTL,
		RateLimit:      a.cfg.Server.RateLimit,
		TracingService: grabberName,
	}, c, programmes, hm)
	if err := srv.ListenAndServe(a.ctx, a.cfg.Server.Listen); err != nil {
		return fail(a.logger, "server.failed", "http server failed", err)
	}
	return 0
}

func newCache(ctx context.Context, a *app) (cache.Cache, error) {
	switch a.cfg.Cache.Type {
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: a.cfg.Cache.RedisAddr,
			DB:   a.cfg.Cache.RedisDB,
		}, xglog.WithComponentFromContext(ctx, "cache"))
	case config.CacheBadger:
		return cache.NewBadgerCache(a.cfg.Cache.Path, xglog.WithComponentFromContext(ctx, "cache"))
	case config.CacheNone:
		return cache.NoOpCache{}, nil
	default:
		return cache.NewMemoryCache(time.Minute), nil
	}
}
