// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/tlgrab/internal/config"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/telemetry"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
	"github.com/ManuGH/tlgrab/internal/version"
)

// errUsage marks argument errors. They exit with status 2.
var errUsage = errors.New("usage")

// app is the state shared by every subcommand.
type app struct {
	cfg    config.AppConfig
	logger zerolog.Logger
	ctx    context.Context
	stop   func()
}

// setup loads the configuration, configures logging on stderr and installs
// the tracer provider. level overrides the configured log level when set.
func setup(configPath, level string, stderr io.Writer) (*app, error) {
	xglog.Configure(xglog.Config{Level: "info", Output: stderr, Service: grabberName, Version: version.Version})

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if level == "" {
		level = cfg.LogLevel
	}
	xglog.Configure(xglog.Config{Level: level, Output: stderr, Service: grabberName, Version: version.Version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, runID := xglog.NewRunContext(ctx)

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    grabberName,
		ServiceVersion: version.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		stop()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	a := &app{cfg: cfg, ctx: ctx}
	a.logger = xglog.WithComponentFromContext(ctx, "cli")
	a.stop = func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("failed to flush traces")
		}
		stop()
	}
	a.logger.Debug().
		Str(xglog.FieldEvent, "config.loaded").
		Str(xglog.FieldRunID, runID).
		Str(xglog.FieldConfigFile, configPath).
		Msg("configuration loaded")
	return a, nil
}

// client builds the upstream API client from the configuration.
func (a *app) client() (*teleloisirs.Client, error) {
	retries := a.cfg.API.MaxRetries
	if retries == 0 {
		retries = -1
	}
	return teleloisirs.NewClient(teleloisirs.Options{
		BaseURL:        a.cfg.API.BaseURL,
		UserAgent:      a.cfg.API.UserAgent,
		Timeout:        a.cfg.API.Timeout,
		MaxRetries:     retries,
		Backoff:        a.cfg.API.RetryBackoff,
		RateLimit:      rate.Limit(a.cfg.API.RateLimit),
		RateLimitBurst: a.cfg.API.RateBurst,
		MaxPages:       a.cfg.API.MaxPages,
	})
}

// fail logs err as the single fatal record and returns the exit status.
func fail(logger zerolog.Logger, event, msg string, err error) int {
	logger.Error().Err(err).Str(xglog.FieldEvent, event).Msg(msg)
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

// selectionMessage maps selection-file failures to the messages grabber
// users expect.
func selectionMessage(path string, err error) string {
	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return "You need to configure the grabber by running it with --configure"
	case errors.Is(err, config.ErrEmptySelection):
		return fmt.Sprintf("Configuration file %s is empty or malformed, delete and run with --configure", path)
	default:
		return "failed to read channel selection"
	}
}
