// Package web is the portal's HTTP surface: routing, middleware, the
// session gate and the page handlers.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Server wraps an http.Server around a chi router configured through Options.
type Server struct {
	srv             *http.Server
	router          *chi.Mux
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a Server bound to addr and applies opts in order.
func NewServer(addr string, logger logging.Logger, opts ...Option) (*Server, error) {
	const (
		defaultIdleTimeout     = 120 * time.Second
		defaultReadTimeout     = 30 * time.Second
		defaultWriteTimeout    = 60 * time.Second
		defaultShutdownTimeout = 10 * time.Second
	)

	mux := chi.NewRouter()

	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			IdleTimeout:       defaultIdleTimeout,
			ReadTimeout:       defaultReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      defaultWriteTimeout,
		},
		router:          mux,
		logger:          logger.With("module", "http_server"),
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid server option: %w", err)
		}
	}

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
