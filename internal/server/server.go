// Package server exposes the conversion pipeline over HTTP: a health
// endpoint describing the active template, and an upload endpoint that
// answers with either a template CSV or an error report.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/fieldstack/simport/internal/engine"
)

// Server is the HTTP front end of the conversion pipeline.
type Server struct {
	engine         *engine.Engine
	port           int
	maxUploadBytes int64
	version        string
	logger         *slog.Logger
}

// Config holds configuration for the HTTP server.
type Config struct {
	Engine      *engine.Engine
	Port        int
	MaxUploadMB int64
	Version     string
	Logger      *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		engine:         cfg.Engine,
		port:           cfg.Port,
		maxUploadBytes: cfg.MaxUploadMB << 20,
		version:        cfg.Version,
		logger:         logger,
	}
}

// Routes builds the HTTP handler. Exposed separately from Serve so tests can
// drive it with httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handleHealth)
	r.Post("/process", s.handleProcess)

	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
