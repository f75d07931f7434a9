// Package server exposes the regression pipeline over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/YuminosukeSato/regplot/pipeline"
	"github.com/YuminosukeSato/regplot/pkg/errors"
	"github.com/YuminosukeSato/regplot/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Version is reported by the health endpoint.
var Version = "0.1.0"

const (
	// RegressionPath accepts the multipart upload.
	RegressionPath = "/api/linear-regression"
	// HealthPath reports liveness.
	HealthPath = "/health"
)

// Config holds server configuration
type Config struct {
	Addr        string
	ReadTimeout time.Duration
	// WriteTimeout bounds a whole regression request. Pipeline runs are
	// synchronous, so there is no separate handler deadline.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	CORSOrigins     []string
	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":5000",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MaxUploadBytes:  10 * 1024 * 1024, // 10MB
		CORSOrigins:     []string{"*"},
		RateLimitRPS:    10,
		RateLimitBurst:  20,
	}
}

// Server is the HTTP front end of a Pipeline.
type Server struct {
	config   *Config
	pipeline *pipeline.Pipeline
	logger   log.Logger
	limiter  *rate.Limiter
}

// New creates a Server. A nil config selects DefaultConfig and a nil logger
// the process default.
func New(p *pipeline.Pipeline, config *Config, logger log.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.GetLoggerWithName("server")
	}
	return &Server{
		config:   config,
		pipeline: p,
		logger:   logger,
		limiter:  newRateLimiter(config.RateLimitRPS, config.RateLimitBurst),
	}
}

func newRateLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Get(HealthPath, s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Post(RegressionPath, s.handleLinearRegression)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.config.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting regression server",
			"addr", ln.Addr().String(),
			"version", Version,
		)
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down regression server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
