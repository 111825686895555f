package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsassist-dashboard/config"
	"opsassist-dashboard/core/dashboard"
	"opsassist-dashboard/core/quickactions"
	"opsassist-dashboard/core/utils"
)

// BackgroundWorker is started with the server and stopped on shutdown.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type ServerDeps struct {
	Sessions     *dashboard.Manager
	QuickActions *quickactions.Service
}

type Server struct {
	cfg          *config.AppConfig
	logger       *utils.Logger
	sessions     *dashboard.Manager
	quickActions *quickactions.Service
	router       chi.Router
	httpServer   *http.Server
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		sessions:     deps.Sessions,
		quickActions: deps.QuickActions,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	if s.logger != nil {
		s.logger.Printf("listening on %s", s.httpServer.Addr)
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
