package web

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/dmitrijs2005/estateportal/internal/server/metrics"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Middlewares is the chain every request passes, outermost first.
func (h *Handler) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		h.logRequests,
		h.recoverer,
		h.session,
	}
}

// logRequests stores a request-scoped logger in the context and writes one
// line per request once the response is done.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		log := h.log.With("request_id", reqID)
		r = r.WithContext(logging.WithLogger(r.Context(), log))

		m := httpsnoop.CaptureMetrics(next, w, r)

		log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
		)
	})
}

// recoverer turns a handler panic into the generic error page.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger(r).Error(r.Context(), "panic serving request",
				"panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			h.renderError(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}

// session attaches the cookie identity to the request context. A cookie
// that no longer verifies is dropped.
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := h.sessions.Load(r)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) {
				h.logger(r).Warn(r.Context(), "invalid session cookie", "error", err.Error())
			}
			h.sessions.Clear(w)
			ident = nil
		}

		if ident != nil {
			r = r.WithContext(withIdentity(r.Context(), ident))
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession sends anonymous callers to the login page.
func (h *Handler) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).IsAnonymous() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	})
}

// requireAdmin sends anonymous callers to the admin login page and refuses
// logged-in users without the admin flag.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFrom(r.Context())
		switch {
		case ident.IsAdmin():
			next(w, r)
		case ident.IsAnonymous():
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		default:
			h.render(w, r, http.StatusForbidden, views.PageForbidden, &views.Data{})
		}
	})
}

// instrument records request metrics under the route pattern.
func instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		labels := prometheus.Labels{metrics.LabelPath: pattern, metrics.LabelMethod: r.Method}

		inflight := metrics.HTTPInflightRequests.With(labels)
		inflight.Inc()
		defer inflight.Dec()

		m := httpsnoop.CaptureMetrics(next, w, r)

		metrics.HTTPTotalRequests.WithLabelValues(pattern, r.Method, strconv.Itoa(m.Code)).Inc()
		metrics.HTTPResponseDuration.With(labels).Observe(m.Duration.Seconds())
		metrics.HTTPResponseSize.With(labels).Observe(float64(m.Written))
	})
}
