package web

import (
	"net/http"

	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) blogList(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageBlogs, &views.Data{Blogs: blogs})
}

func (h *Handler) blogDetails(w http.ResponseWriter, r *http.Request) {
	b, err := h.blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageBlog, &views.Data{Blog: b})
}

func (h *Handler) contactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageContact, nil)
}

// contact only logs the message; there is no mail delivery.
func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	h.logger(r).Info(r.Context(), "contact message",
		"name", r.PostFormValue("name"),
		"email", r.PostFormValue("email"),
		"message", r.PostFormValue("message"),
	)
	h.render(w, r, http.StatusOK, views.PageContact, &views.Data{Sent: true})
}
