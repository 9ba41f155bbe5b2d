// Package server exposes dashboard layouts over HTTP.
//
// The server is a thin Grid Surface: it translates requests into layout
// store operations and returns the resulting layout. All routes live
// under /api/v1/dashboards/{dashboard}; a dashboard is created with the
// default layout the first time it is addressed.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dashgrid/pkg/widget"
)

// Config configures a Server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *log.Logger

	// Kinds is listed by GET /api/v1/kinds. Optional.
	Kinds []widget.Kind
}

// Server serves the HTTP API.
type Server struct {
	manager *Manager
	cfg     Config
	logger  *log.Logger
	router  chi.Router
}

// New creates a server over manager.
func New(manager *Manager, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{manager: manager, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)

		r.Route("/dashboards/{dashboard}", func(r chi.Router) {
			r.Use(s.withStore)

			r.Get("/layout", s.handleLayout)
			r.Get("/layout/pixels", s.handlePixels)
			r.Get("/layout.svg", s.handleSVG)
			r.Post("/compact", s.handleCompact)
			r.Put("/breakpoint", s.handleBreakpoint)
			r.Post("/reset", s.handleReset)

			r.Post("/widgets", s.handleAdd)
			r.Delete("/widgets/{id}", s.handleRemove)
			r.Post("/widgets/{id}/move", s.handleMove)
			r.Post("/widgets/{id}/preview", s.handlePreview)
			r.Post("/widgets/{id}/resize", s.handleResize)
			r.Post("/widgets/{id}/cycle", s.handleCycle)
		})
	})
	return r
}

// logRequests logs one line per request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
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
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
