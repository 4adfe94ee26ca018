// Package server provides the HTTP API for ragserve.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/config"
	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/rag"
)

// Server is the HTTP server for the ragserve API.
type Server struct {
	orchestrator *rag.Orchestrator
	loader       *loader.Loader
	guard        *Guard
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(orchestrator *rag.Orchestrator, ld *loader.Loader, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		loader:       ld,
		guard:        NewGuard(cfg.Security, logger),
		config:       cfg,
		logger:       logger,
	}
}

// Router builds the route tree. Split out from Start so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(s.guard.RateLimit)
		r.Use(s.guard.Auth)
		r.Use(s.guard.PayloadLimit)
		r.Use(s.guard.PromptInjection)

		r.Post("/ingest", s.handleIngest)
		r.Post("/chat", s.handleChat)
		r.Post("/summarize", s.handleSummarize)
		r.Post("/sentiment", s.handleSentiment)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
