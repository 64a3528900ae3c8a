package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mercator-hq/textstudio/pkg/config"
	"mercator-hq/textstudio/pkg/server/handlers"
	"mercator-hq/textstudio/pkg/server/middleware"
	"mercator-hq/textstudio/pkg/telemetry/health"
	"mercator-hq/textstudio/pkg/telemetry/metrics"
)

// rateLimitCleanupInterval is how often idle client buckets are dropped.
const rateLimitCleanupInterval = time.Minute

// Dependencies are the components the server exposes.
type Dependencies struct {
	API *handlers.API

	// Health serves /health; nil serves a static ok
	Health *health.Checker

	// Metrics serves /metrics and records request metrics; nil disables both
	Metrics *metrics.Collector

	// MetricsPath defaults to /metrics
	MetricsPath string

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// Server is the textstudio HTTP API server.
type Server struct {
	config      config.ServerConfig
	deps        Dependencies
	rateLimiter *middleware.RateLimiter

	httpServer   *http.Server
	addr         net.Addr
	ready        chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a Server.
func New(cfg config.ServerConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultMetricsPath
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		ready:  make(chan struct{}),
	}
	if cfg.RateLimit.Enabled {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit)
	}
	return s
}

// Start serves until ctx is done, a shutdown signal arrives, or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.setRunning(false)
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.deps.Logger.Handler(), slog.LevelWarn),
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()
	close(s.ready)

	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	if s.rateLimiter != nil {
		go s.rateLimiter.Run(bgCtx, rateLimitCleanupInterval)
	}

	errChan := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("starting API server",
			"address", listener.Addr().String(),
			"rate_limit", s.config.RateLimit.Enabled,
			"cors", s.config.CORS.Enabled,
		)

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.deps.Logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.deps.Logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.setRunning(false)
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if !s.IsRunning() {
			return
		}

		s.deps.Logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.deps.Logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.setRunning(false)
		s.deps.Logger.Info("API server stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.deps.API != nil {
		s.deps.API.Register(mux)
	}

	if s.deps.Health != nil {
		mux.Handle("GET /health", s.deps.Health.Handler())
	} else {
		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
		})
	}

	if s.deps.Metrics != nil && s.deps.Metrics.Enabled() {
		mux.Handle("GET "+s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	// Innermost first
	var handler http.Handler = mux
	handler = middleware.MetricsMiddleware(s.deps.Metrics)(handler)
	handler = middleware.MaxBodyMiddleware(s.config.MaxBodyBytes)(handler)
	if s.rateLimiter != nil {
		var onReject func()
		if s.deps.Metrics != nil {
			onReject = s.deps.Metrics.RecordRateLimited
		}
		handler = middleware.RateLimitMiddleware(s.rateLimiter, onReject)(handler)
	}
	handler = middleware.CORSMiddleware(s.config.CORS)(handler)
	handler = middleware.LoggingMiddleware(s.deps.Logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// Addr returns the bound address once the server is listening.
// It blocks until Start has bound the listener or ctx is done.
func (s *Server) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.ready:
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.addr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) setRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRunning = running
}
