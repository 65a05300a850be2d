// Jazz Graph
// Copyright (c) 2026 The Jazz Graph Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Jazz Graph.
//
// Jazz Graph is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Jazz Graph is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Jazz Graph.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the normalizer and matcher over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jazzgraph/jazzgraph/pkg/api/middleware"
	"github.com/jazzgraph/jazzgraph/pkg/database/releasedb"
	"github.com/jazzgraph/jazzgraph/pkg/matcher"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
	maxBodyBytes          = 64 * 1024
)

// ReleaseCounter reports stored match totals. *releasedb.ReleaseDB
// satisfies it.
type ReleaseCounter interface {
	Counts(ctx context.Context) (releasedb.Counts, error)
}

// Options configures a Server.
type Options struct {
	// Releases, when set, adds stored totals to /stats.
	Releases ReleaseCounter
	// Clock drives the rate limiter. Nil uses the real clock.
	Clock          clockwork.Clock
	AllowedOrigins []string
	// RequestsPerMinute per client IP. Zero disables rate limiting.
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

// Server is the HTTP front end over one Matcher.
type Server struct {
	matcher *matcher.Matcher
	limiter *middleware.IPRateLimiter
	opts    Options
}

// NewServer creates a Server.
//
//nolint:gocritic // options struct copied once at construction
func NewServer(m *matcher.Matcher, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	s := &Server{matcher: m, opts: opts}
	if opts.RequestsPerMinute > 0 {
		s.limiter = middleware.NewIPRateLimiter(opts.RequestsPerMinute, middleware.DefaultBurstSize, opts.Clock)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(chimiddleware.Timeout(s.opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))
	if s.limiter != nil {
		r.Use(middleware.HTTPRateLimitMiddleware(s.limiter))
	}

	r.Get("/normalize", s.handleNormalize)
	r.Post("/match", s.handleMatch)
	r.Get("/suggest", s.handleSuggest)
	r.Get("/stats", s.handleStats)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.limiter != nil {
		s.limiter.StartCleanup(ctx)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server failed: %w", err)
	}
	log.Info().Msg("api server stopped")
	return nil
}
