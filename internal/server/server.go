// Package server exposes the document search API over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/doc-search/internal/chat"
	"github.com/ziadkadry99/doc-search/internal/config"
	"github.com/ziadkadry99/doc-search/internal/requestlog"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

// Server serves the search, chat, and health endpoints.
type Server struct {
	cfg          config.ServerConfig
	orchestrator *chat.Orchestrator
	logs         *requestlog.Store
	store        vectordb.VectorStore
	providerName string
	router       chi.Router
	httpServer   *http.Server
}

// New creates a server with all dependencies. logs may be nil to disable
// durable request logging.
func New(cfg config.ServerConfig, orchestrator *chat.Orchestrator, logs *requestlog.Store, store vectordb.VectorStore, providerName string) *Server {
	s := &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		logs:         logs,
		store:        store,
		providerName: providerName,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Route("/ai/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/search-chat", s.handleSearchChat)
		r.Get("/health", s.handleHealth)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docsearch server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
