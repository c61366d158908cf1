// Package api serves the sales reports over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
	"github.com/ginjaninja78/csv-sales-watcher/internal/logging"
)

// DefaultShutdownTimeout bounds a graceful shutdown when none is configured.
const DefaultShutdownTimeout = 15 * time.Second

// Server is the read-only report API.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          logrus.FieldLogger
}

// New builds the server. A nil metrics handler leaves /metrics unrouted.
func New(settings config.HTTPSettings, reports Reports, metricsHandler http.Handler, logger logrus.FieldLogger) *Server {
	logger = logging.Default(logger).WithField("component", "api")

	configs := []ConfigRouter{
		WithRoutes(Healthcheck()...),
		WithRoutes(ReportRoutes(reports, logger)...),
	}
	if metricsHandler != nil {
		configs = append(configs, WithRoutes(MetricsRoutes(metricsHandler)...))
	}
	rt := NewRouter(configs...)

	middlewares := []alice.Constructor{
		LogPanicMiddleware(logger),
		LoggingMiddleware(logger),
	}

	timeout := settings.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              settings.Addr,
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		shutdownTimeout: timeout,
		logger:          logger,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.WithError(err).Error("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.WithField("timeout", s.shutdownTimeout).Info("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("server shutdown failed")
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
