package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/formcheck"
	"github.com/opheus2/form-schema-validator/pkg/registry"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/health"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/tracing"
)

// SchemaSource looks up named schemas. *registry.Manager and
// *registry.Registry implement it.
type SchemaSource interface {
	Get(name string) (*registry.Entry, error)
	Names() []string
}

// Server is the validation HTTP server.
type Server struct {
	config      *config.ServerConfig
	metricsPath string
	engine      *formcheck.Engine
	schemas     SchemaSource
	logger      *logging.Logger
	metrics     *metrics.Collector
	tracer      *tracing.Tracer
	checker     *health.Checker
	version     health.VersionInfo

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records request metrics and serves the collector at path.
// An empty path records without exposing the endpoint.
func WithMetrics(c *metrics.Collector, path string) Option {
	return func(s *Server) {
		s.metrics = c
		s.metricsPath = path
	}
}

// WithTracer wraps every request in a server span.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithHealth replaces the readiness checker.
func WithHealth(c *health.Checker) Option {
	return func(s *Server) {
		if c != nil {
			s.checker = c
		}
	}
}

// WithVersion sets the build information served at /version.
func WithVersion(info health.VersionInfo) Option {
	return func(s *Server) { s.version = info }
}

// New creates a server. When schemas has a HealthCheck method it is
// registered as the "schemas" readiness check.
func New(cfg *config.ServerConfig, engine *formcheck.Engine, schemas SchemaSource, opts ...Option) *Server {
	if cfg == nil {
		cfg = &config.Default().Server
	}
	if engine == nil {
		engine = formcheck.Default()
	}
	s := &Server{
		config:  cfg,
		engine:  engine,
		schemas: schemas,
		logger:  logging.Nop(),
		checker: health.New(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if hc, ok := schemas.(interface{ HealthCheck(context.Context) error }); ok {
		s.checker.Register("schemas", hc.HealthCheck)
	}
	return s
}

// Start listens on the configured address and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting validation server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		running := s.isRunning
		s.mu.Unlock()
		if !running || srv == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		s.logger.Info("Validation server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /v1/schemas/validate", s.handleValidateSchema)
	s.route(mux, "POST /v1/forms/{name}/validate", s.handleValidateSubmission)
	s.route(mux, "GET /v1/forms", s.handleListForms)
	s.checker.Mount(mux, s.version)
	if s.metrics != nil && s.metricsPath != "" {
		mux.Handle("GET "+s.metricsPath, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger, handler)
	handler = recoveryMiddleware(s.logger, handler)
	if s.tracer != nil {
		handler = tracing.HTTPMiddleware(s.tracer, handler)
	}
	// Request IDs are assigned first so every later layer can log them.
	handler = requestIDMiddleware(handler)
	return handler
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}
	mux.Handle(pattern, instrument(s.metrics, route, h))
}
