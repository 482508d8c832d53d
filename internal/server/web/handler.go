package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/logging"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/photos"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.Identity, error)
	AuthenticateAdmin(username, password string) error
	AdminEnabled() bool
}

type ListingService interface {
	List(ctx context.Context, f services.Filter) ([]models.Property, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Property, error)
	Cities(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, ident *models.Identity, fields models.PropertyFields, photoPaths []string) (*models.Property, error)
	Update(ctx context.Context, id string, ident *models.Identity, fields models.PropertyFields, newPhotoPaths []string) (*models.Property, error)
	Delete(ctx context.Context, ident *models.Identity, id string) error
}

type Importer interface {
	ImportFile(ctx context.Context, ident *models.Identity, path string) (*services.ImportResult, error)
}

type BlogService interface {
	List(ctx context.Context) ([]models.Blog, error)
	Get(ctx context.Context, id string) (*models.Blog, error)
	Latest(ctx context.Context, n int) ([]models.Blog, error)
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Users    UserService
	Listings ListingService
	Importer Importer
	Blogs    BlogService
	Photos   photos.Store
	Renderer views.Renderer
	Sessions *Sessions
	Logger   logging.Logger

	PublicDir      string
	TempDir        string
	MaxPhotos      int
	MaxUploadBytes int64
	LatestBlogs    int
	MetricsEnabled bool
}

// Handler serves every portal page.
type Handler struct {
	users    UserService
	listings ListingService
	importer Importer
	blogs    BlogService
	photos   photos.Store
	renderer views.Renderer
	sessions *Sessions
	log      logging.Logger

	publicDir      string
	tempDir        string
	maxPhotos      int
	maxUploadBytes int64
	latestBlogs    int
	metricsEnabled bool
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		users:          d.Users,
		listings:       d.Listings,
		importer:       d.Importer,
		blogs:          d.Blogs,
		photos:         d.Photos,
		renderer:       d.Renderer,
		sessions:       d.Sessions,
		log:            d.Logger,
		publicDir:      d.PublicDir,
		tempDir:        d.TempDir,
		maxPhotos:      d.MaxPhotos,
		maxUploadBytes: d.MaxUploadBytes,
		latestBlogs:    d.LatestBlogs,
		metricsEnabled: d.MetricsEnabled,
	}
	if h.log == nil {
		h.log = logging.Nop{}
	}
	h.log = h.log.With("module", "web")
	if h.maxPhotos <= 0 {
		h.maxPhotos = 6
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = 32 << 20
	}
	if h.latestBlogs <= 0 {
		h.latestBlogs = 3
	}
	return h
}

// Routes returns the full route table.
func (h *Handler) Routes() []Route {
	routes := []Route{
		{"GET", "/", http.HandlerFunc(h.home)},
		{"GET", "/buy", http.HandlerFunc(h.buy)},
		{"GET", "/rent", http.HandlerFunc(h.rent)},
		{"GET", "/property/{id}", http.HandlerFunc(h.propertyDetails)},

		{"GET", "/register", http.HandlerFunc(h.registerForm)},
		{"POST", "/register", http.HandlerFunc(h.register)},
		{"GET", "/login", http.HandlerFunc(h.loginForm)},
		{"POST", "/login", http.HandlerFunc(h.login)},
		{"GET", "/logout", http.HandlerFunc(h.logout)},
		{"POST", "/logout", http.HandlerFunc(h.logout)},

		{"GET", "/dashboard", h.requireSession(h.dashboard)},
		{"GET", "/add", h.requireSession(h.addForm)},
		{"POST", "/add", h.requireSession(h.addProperty)},
		{"GET", "/edit/{id}", h.requireSession(h.editForm)},
		{"POST", "/edit/{id}", h.requireSession(h.editProperty)},

		{"GET", "/admin/login", http.HandlerFunc(h.adminLoginForm)},
		{"POST", "/admin/login", http.HandlerFunc(h.adminLogin)},
		{"GET", "/admin/dashboard", h.requireAdmin(h.adminDashboard)},
		{"GET", "/admin/delete/{id}", h.requireAdmin(h.adminDelete)},
		{"POST", "/admin/delete/{id}", h.requireAdmin(h.adminDelete)},
		{"GET", "/admin/import", h.requireAdmin(h.importForm)},
		{"POST", "/admin/import", h.requireAdmin(h.importProperties)},

		{"GET", "/blogs", http.HandlerFunc(h.blogList)},
		{"GET", "/blog/{id}", http.HandlerFunc(h.blogDetails)},
		{"GET", "/about", h.static(views.PageAbout)},
		{"GET", "/terms", h.static(views.PageTerms)},
		{"GET", "/privacy", h.static(views.PagePrivacy)},
		{"GET", "/contact", http.HandlerFunc(h.contactForm)},
		{"POST", "/contact", http.HandlerFunc(h.contact)},

		{"GET", "/healthz", http.HandlerFunc(h.healthz)},
	}
	if h.metricsEnabled {
		routes = append(routes, Route{"GET", "/metrics", promhttp.Handler()})
	}

	for i := range routes {
		routes[i].handler = instrument(routes[i].pattern, routes[i].handler)
	}
	return routes
}

// Options wires the handler into a Server.
func (h *Handler) Options() []Option {
	return []Option{
		WithMiddlewares(h.Middlewares()...),
		WithRoutes(h.Routes()...),
		WithNotFound(instrument("notfound", http.HandlerFunc(h.notFound)).ServeHTTP),
	}
}

func (h *Handler) logger(r *http.Request) logging.Logger {
	return logging.FromContext(r.Context(), h.log)
}

// render fills the session identity into data and writes the page with
// status. Rendering happens into a buffer so a template failure can still
// produce a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *views.Data) {
	if data == nil {
		data = &views.Data{}
	}
	data.Session = IdentityFrom(r.Context())
	if data.MaxPhotos == 0 {
		data.MaxPhotos = h.maxPhotos
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		h.logger(r).Error(r.Context(), "render failed", "page", page, "error", err.Error())
		if page != views.PageError {
			h.renderError(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, views.PageError, &views.Data{
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// fail maps a service error onto the matching page and status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		h.render(w, r, http.StatusNotFound, views.PageNotFound, &views.Data{URL: r.URL.Path})
	case errors.Is(err, common.ErrorForbidden):
		h.render(w, r, http.StatusForbidden, views.PageForbidden, nil)
	case errors.Is(err, common.ErrorUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		h.logger(r).Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		h.renderError(w, r)
	}
}

func (h *Handler) static(page string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, page, nil)
	})
}

// notFound serves files from the public dir (photos, images, css) and
// renders the 404 page for everything else.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if h.publicDir != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		clean := path.Clean("/" + r.URL.Path)
		name := filepath.Join(h.publicDir, filepath.FromSlash(clean))
		if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() && !hasDotSegment(clean) {
			http.ServeFile(w, r, name)
			return
		}
	}

	h.render(w, r, http.StatusNotFound, views.PageNotFound, &views.Data{URL: r.URL.Path})
}

// hasDotSegment reports whether any element of the slash-separated path p
// is hidden (.git, .env, ...).
func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
