// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakebackend serves canned NL command responses for demos and tests.
// It replays fixtures; it does not interpret language.
package fakebackend

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/rs/zerolog"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetFakeBackendLogger()
		log = &l
	})
	return log
}

// Server is the fake NL command service.
type Server struct {
	httpServer *http.Server
}

// NewRouter wires the routes and middleware of the fake service.
func NewRouter(cfg *config.FakeBackendConfig, correlationHeader string, fixtures *Fixtures) http.Handler {
	handlers := NewHandlers(fixtures)

	r := chi.NewRouter()

	// Global middleware
	r.Use(Recovery)
	r.Use(CorrelationID(correlationHeader))
	r.Use(TraceContext)
	r.Use(Logger)
	r.Use(CORS(cfg.AllowedOrigins, correlationHeader))
	r.Use(MaxBodySize(64 << 10))

	r.Post("/nl/execute", handlers.Execute)
	r.Get("/healthz", handlers.Health)

	return r
}

// New creates the server. It does NOT start listening, call Run() for that.
func New(cfg *config.FakeBackendConfig, correlationHeader string, fixtures *Fixtures) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg, correlationHeader, fixtures),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		getLog().Info().Str("addr", s.httpServer.Addr).Msg("Fake NL service listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
