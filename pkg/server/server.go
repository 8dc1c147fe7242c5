// Package server provides the askgate HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"frontmentor/askgate/pkg/config"
	"frontmentor/askgate/pkg/proxy/middleware"
)

// Route paths.
const (
	AskPath    = "/api/ask"
	HealthPath = "/health"
	ReadyPath  = "/ready"
)

// askTimeoutShare is the part of the write timeout granted to /api/ask, so
// the handler can still write its error envelope before the connection is
// cut.
const askTimeoutShare = 0.9

// Routes are the handlers mounted by the server. Nil handlers are skipped.
type Routes struct {
	Ask    http.Handler
	Health http.Handler
	Ready  http.Handler

	// Metrics is mounted at MetricsPath when both are set.
	Metrics     http.Handler
	MetricsPath string
}

// Server is the askgate HTTP server.
type Server struct {
	config     *config.ServerConfig
	routes     Routes
	recorder   middleware.RequestRecorder
	tracing    func(http.Handler) http.Handler
	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	isRunning  bool
}

// Option configures optional server behavior.
type Option func(*Server)

// WithRequestRecorder records per-route request metrics.
func WithRequestRecorder(rec middleware.RequestRecorder) Option {
	return func(s *Server) {
		s.recorder = rec
	}
}

// WithTracing wraps every request in mw, typically tracing.Tracer.Middleware.
func WithTracing(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.tracing = mw
	}
}

// NewServer creates a new server.
func NewServer(cfg *config.ServerConfig, routes Routes, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		routes: routes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully. It returns once the server has
// stopped.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting askgate server", "address", ln.Addr().String())

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.setRunning(false)
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	running := s.isRunning
	srv := s.httpServer
	s.mu.RUnlock()

	if !running || srv == nil {
		return nil
	}

	slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	shutdownCtx := ctx
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	var shutdownErr error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	s.setRunning(false)
	slog.Info("askgate server stopped")

	return shutdownErr
}

// Addr returns the listening address once Start has bound the socket.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Server) setRunning(v bool) {
	s.mu.Lock()
	s.isRunning = v
	s.mu.Unlock()
}

// Handler returns the routed handler wrapped in the middleware chain.
//
// From the outside in: request ID, tracing, logging, panic recovery, CORS.
// Per route: metrics and, for /api/ask, the request deadline.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.routes.Ask != nil {
		ask := middleware.TimeoutMiddleware(s.askTimeout())(s.routes.Ask)
		mux.Handle(AskPath, s.instrument(AskPath, ask))
	}
	if s.routes.Health != nil {
		mux.Handle(HealthPath, s.instrument(HealthPath, s.routes.Health))
	}
	if s.routes.Ready != nil {
		mux.Handle(ReadyPath, s.instrument(ReadyPath, s.routes.Ready))
	}
	if s.routes.Metrics != nil && s.routes.MetricsPath != "" {
		mux.Handle(s.routes.MetricsPath, s.routes.Metrics)
	}
	if s.config.StaticDir != "" {
		files := http.FileServer(http.Dir(s.config.StaticDir))
		mux.Handle("/", s.instrument("/", files))
	}

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(s.config.CORS)(handler)
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	if s.tracing != nil {
		handler = s.tracing(handler)
	}
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}

func (s *Server) instrument(route string, h http.Handler) http.Handler {
	if s.recorder == nil {
		return h
	}
	return middleware.MetricsMiddleware(s.recorder, route)(h)
}

// askTimeout is the deadline placed on /api/ask request contexts.
func (s *Server) askTimeout() time.Duration {
	if s.config.WriteTimeout <= 0 {
		return 0
	}
	return time.Duration(float64(s.config.WriteTimeout) * askTimeoutShare)
}
