// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves a previously generated XMLTV guide over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/tlgrab/internal/api/middleware"
	"github.com/ManuGH/tlgrab/internal/cache"
	"github.com/ManuGH/tlgrab/internal/health"
	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ProgrammeStore is the read side of the relational store.
type ProgrammeStore interface {
	ProgrammesByChannels(ctx context.Context, cids []string) ([]store.Programme, error)
}

// Config configures the HTTP surface.
type Config struct {
	XMLTVPath string
	CacheTTL  time.Duration
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
	// TracingService names server spans; empty disables tracing.
	TracingService string
}

// Server routes the guide endpoints. Store may be nil, in which case
// /api/programmes answers 503.
type Server struct {
	cfg    Config
	cache  cache.Cache
	store  ProgrammeStore
	health *health.Manager
	router chi.Router
}

// New builds the server. A nil cache disables response caching and a nil
// health manager gets an empty one.
func New(cfg Config, c cache.Cache, st ProgrammeStore, hm *health.Manager) *Server {
	if c == nil {
		c = cache.NoOpCache{}
	}
	if hm == nil {
		hm = health.NewManager("")
	}
	s := &Server{cfg: cfg, cache: c, store: st, health: hm}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		TracingService: s.cfg.TracingService,
		EnableMetrics:  true,
		EnableLogging:  true,
		RateLimit:      s.cfg.RateLimit,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/xmltv.xml", s.handleXMLTV)
	r.Get("/home", s.handleHome)
	r.Get("/api/programmes", s.handleProgrammes)
	return r
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := xglog.WithComponentFromContext(ctx, "api")
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info().
		Str(xglog.FieldEvent, "server.start").
		Str("addr", ln.Addr().String()).
		Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	logger.Info().Str(xglog.FieldEvent, "server.stop").Msg("http server stopped")
	return nil
}
