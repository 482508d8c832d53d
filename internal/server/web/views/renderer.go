// Package views renders the portal's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

// Page names. Each has a templates/pages/<name>.html file.
const (
	PageHome             = "home"
	PageListings         = "listings"
	PageProperty         = "property"
	PagePropertyNotFound = "property-notfound"
	PageAddProperty      = "add-property"
	PageEditProperty     = "edit-property"
	PageDashboard        = "dashboard"
	PageRegister         = "register"
	PageLogin            = "login"
	PageAdminLogin       = "admin-login"
	PageAdminDashboard   = "admin-dashboard"
	PageAdminImport      = "admin-import"
	PageBlogs            = "blogs"
	PageBlog             = "blog"
	PageAbout            = "about"
	PageTerms            = "terms"
	PagePrivacy          = "privacy"
	PageContact          = "contact"
	PageNotFound         = "notfound"
	PageForbidden        = "forbidden"
	PageError            = "error"
)

// Renderer writes a complete page. data is whatever the page template
// expects; see the templates for field names.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

//go:embed templates
var templatesFS embed.FS

// TemplateRenderer executes html/template pages wrapped in a shared layout.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	return NewTemplateRendererFS(templatesFS)
}

// NewTemplateRendererFS parses templates/layout.html and every
// templates/pages/*.html from fsys.
func NewTemplateRendererFS(fsys fs.FS) (*TemplateRenderer, error) {
	base, err := template.New("layout.html").Funcs(FuncMap()).ParseFS(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")

		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, f); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &TemplateRenderer{pages: pages}, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *TemplateRenderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template exists for page.
func (r *TemplateRenderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}
