package web

import (
	"fmt"
	"net/http"
	"time"
)

// Route binds a handler to a method and chi pattern.
type Route struct {
	method  string
	pattern string
	handler http.Handler
}

func NewRoute(method, pattern string, h http.Handler) Route {
	return Route{method: method, pattern: pattern, handler: h}
}

// Option configures a Server.
type Option func(*Server) error

// WithRoutes adds routes to the router.
func WithRoutes(routes ...Route) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}

		for _, route := range routes {
			s.router.Method(route.method, route.pattern, route.handler)
		}

		return nil
	}
}

// WithMiddlewares makes the router run mws, outermost first. Must come
// before WithRoutes.
func WithMiddlewares(mws ...func(http.Handler) http.Handler) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}

		s.router.Use(mws...)

		return nil
	}
}

// WithNotFound sets the handler for unmatched paths.
func WithNotFound(h http.HandlerFunc) Option {
	return func(s *Server) error {
		if s.router == nil {
			return fmt.Errorf("default server is missing a router")
		}

		s.router.NotFound(h)

		return nil
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d > 0 {
			s.shutdownTimeout = d
		}
		return nil
	}
}
