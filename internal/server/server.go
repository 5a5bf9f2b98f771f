// Package server exposes the symexpr tool interface over HTTP.
//
//	POST /v1/tool    execute one tool call
//	GET  /v1/schema  tool schema for agent registration
//	GET  /health     liveness check
//	GET  /metrics    Prometheus exposition
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/symexpr/internal/config"
	"github.com/njchilds90/symexpr/internal/metrics"
)

// Options configures a Server. Registry defaults to the global Prometheus
// registry and Logger to slog.Default().
type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Server is the HTTP front end of the tool interface.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	router  *gin.Engine
}

// New builds the router. It does not start listening.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		reg, gatherer = opts.Registry, opts.Registry
	}

	s := &Server{
		cfg:     opts.Config,
		logger:  logger,
		metrics: metrics.New(reg),
		router:  gin.New(),
	}
	s.router.Use(
		recovery(logger),
		requestID(),
		accessLog(logger),
		limitBody(opts.Config.MaxBodyBytes),
	)
	RegisterRoutes(s.router, NewHandlers(logger, s.metrics))
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down,
// giving in-flight requests up to the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("symexpr server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
