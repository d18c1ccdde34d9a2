// Package server exposes the listings page over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"listings-web/config"
	"listings-web/internal/page"
	"listings-web/internal/port"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter wires the routes and middleware.
func NewRouter(cfg config.ServerConfig, pages PageBuilder, baseLogger port.LoggerPort) (http.Handler, error) {
	assets, err := fs.Sub(page.Assets, "assets")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}
	h := NewPageHandler(pages)

	r := chi.NewRouter()
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/", h.Index)
	r.Get("/healthz", Health)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))
	if cfg.Dev {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Group(func(r chi.Router) {
		if len(cfg.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.CORSOrigins,
				AllowedMethods: []string{"GET", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", TraceHeader},
				ExposedHeaders: []string{TraceHeader},
				MaxAge:         300,
			}))
		}
		r.Use(middleware.NoCache)
		r.Get("/properties.json", h.Properties)
	})

	return r, nil
}

func NewServer(cfg config.ServerConfig, pages PageBuilder, baseLogger port.LoggerPort) (*Server, error) {
	handler, err := NewRouter(cfg, pages, baseLogger)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		},
		logger: baseLogger,
	}, nil
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...", nil)
	return s.httpServer.Shutdown(ctx)
}
