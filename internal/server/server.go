package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/config"
	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/service/persona"
)

// Server exposes the synthesis pipeline over HTTP.
type Server struct {
	httpServer *http.Server
	pipeline   *persona.Pipeline
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, pipeline *persona.Pipeline, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(securityHeaders)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/personas", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}

	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP 서버 시작", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP 서버 종료 중")
	return s.httpServer.Shutdown(ctx)
}
