package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/server/handler"
	"github.com/0xcoordinator/coordinator/internal/server/middleware"
	"github.com/0xcoordinator/coordinator/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// RateLimiter guards the unauthenticated soft-cancel lookup endpoint. If
	// nil, that endpoint is served without rate limiting.
	RateLimiter               domain.RateLimiter
	SoftCancelRateLimit       int
	SoftCancelRateLimitWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health     *handler.HealthHandler
	Request    *handler.RequestHandler
	SoftCancel *handler.SoftCancelHandler
}

// Server is the headless HTTP + WebSocket API server for the coordinator.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (logging, CORS, auth) and attaches the WebSocket hub.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v2/health", handlers.Health.HealthCheck)
	mux.HandleFunc("POST /v2/{chainId}/request_transaction", handlers.Request.RequestTransaction)

	softCancels := http.Handler(http.HandlerFunc(handlers.SoftCancel.SoftCancels))
	if cfg.RateLimiter != nil {
		softCancels = middleware.RateLimit(cfg.RateLimiter, cfg.SoftCancelRateLimit, cfg.SoftCancelRateLimitWindow)(softCancels)
	}
	mux.Handle("POST /v2/{chainId}/soft_cancels", softCancels)

	if wsHub != nil {
		mux.HandleFunc("GET /v2/{chainId}/ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
