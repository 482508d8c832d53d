package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/photos"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := services.Filter{
		City:        r.URL.Query().Get("city"),
		ListingType: r.URL.Query().Get("listingType"),
	}

	props, err := h.listings.List(ctx, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cities, err := h.listings.Cities(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	blogs, err := h.blogs.Latest(ctx, h.latestBlogs)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, views.PageHome, &views.Data{
		Properties:        props,
		Cities:            cities,
		CityFilter:        filter.City,
		ListingTypeFilter: filter.ListingType,
		Blogs:             blogs,
	})
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	h.listingsByType(w, r, models.ListingSale, "Properties for Sale")
}

func (h *Handler) rent(w http.ResponseWriter, r *http.Request) {
	h.listingsByType(w, r, models.ListingRent, "Properties for Rent")
}

func (h *Handler) listingsByType(w http.ResponseWriter, r *http.Request, lt models.ListingType, title string) {
	props, err := h.listings.List(r.Context(), services.Filter{ListingType: string(lt)})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageListings, &views.Data{Title: title, Properties: props})
}

func (h *Handler) propertyDetails(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProperty(w, r)
	if !ok {
		return
	}

	h.render(w, r, http.StatusOK, views.PageProperty, &views.Data{
		Property: p,
		CanEdit:  services.CanEdit(IdentityFrom(r.Context()), p),
	})
}

// loadProperty fetches the {id} listing, rendering the not-found page when
// it does not exist.
func (h *Handler) loadProperty(w http.ResponseWriter, r *http.Request) (*models.Property, bool) {
	p, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.render(w, r, http.StatusNotFound, views.PagePropertyNotFound, nil)
		} else {
			h.fail(w, r, err)
		}
		return nil, false
	}
	return p, true
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFrom(r.Context())
	if !ident.IsUser() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}

	props, err := h.listings.ListByOwner(r.Context(), ident.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, views.PageDashboard, &views.Data{Properties: props})
}

func (h *Handler) addForm(w http.ResponseWriter, r *http.Request) {
	if !IdentityFrom(r.Context()).IsUser() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, views.PageAddProperty, &views.Data{
		Form: views.Form{ListingType: string(models.ListingSale)},
	})
}

func (h *Handler) addProperty(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFrom(r.Context())
	if !ident.IsUser() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	fields, paths, ok := h.readPropertyForm(w, r, views.PageAddProperty, nil)
	if !ok {
		return
	}

	p, err := h.listings.Create(r.Context(), ident, fields, paths)
	if err != nil {
		h.discardPhotos(r, paths)
		h.propertyFormError(w, r, views.PageAddProperty, nil, fields, err)
		return
	}

	h.logger(r).Info(r.Context(), "property created", "id", p.ID, "owner", p.UserID, "photos", len(p.Photos))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) editForm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProperty(w, r)
	if !ok {
		return
	}
	if !services.CanEdit(IdentityFrom(r.Context()), p) {
		h.render(w, r, http.StatusForbidden, views.PageForbidden, nil)
		return
	}

	h.render(w, r, http.StatusOK, views.PageEditProperty, &views.Data{
		Property: p,
		Form:     views.FormFromProperty(p),
	})
}

func (h *Handler) editProperty(w http.ResponseWriter, r *http.Request) {
	ident := IdentityFrom(r.Context())

	current, ok := h.loadProperty(w, r)
	if !ok {
		return
	}
	if !services.CanEdit(ident, current) {
		h.render(w, r, http.StatusForbidden, views.PageForbidden, nil)
		return
	}

	fields, paths, ok := h.readPropertyForm(w, r, views.PageEditProperty, current)
	if !ok {
		return
	}

	p, err := h.listings.Update(r.Context(), current.ID, ident, fields, paths)
	if err != nil {
		h.discardPhotos(r, paths)
		h.propertyFormError(w, r, views.PageEditProperty, current, fields, err)
		return
	}

	h.logger(r).Info(r.Context(), "property updated", "id", p.ID)
	h.render(w, r, http.StatusOK, views.PageEditProperty, &views.Data{
		Property: p,
		Form:     views.FormFromProperty(p),
		Success:  "Property updated successfully!",
	})
}

// readPropertyForm parses the multipart listing form, validates it and
// stores the uploaded photos. It renders the form again and returns false
// on any problem.
func (h *Handler) readPropertyForm(w http.ResponseWriter, r *http.Request, page string, current *models.Property) (models.PropertyFields, []string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.propertyFormError(w, r, page, current, models.PropertyFields{},
			common.NewValidationError("photos", "upload is too large or malformed"))
		return models.PropertyFields{}, nil, false
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	fields := models.PropertyFields{
		Title:       r.FormValue("title"),
		Type:        r.FormValue("type"),
		ListingType: r.FormValue("listingType"),
		Price:       r.FormValue("price"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
	}

	if err := services.ValidateFields(fields); err != nil {
		h.propertyFormError(w, r, page, current, fields, err)
		return fields, nil, false
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["photos"]
	}
	if err := h.checkPhotos(files); err != nil {
		h.propertyFormError(w, r, page, current, fields, err)
		return fields, nil, false
	}

	paths, err := h.savePhotos(r, files)
	if err != nil {
		h.fail(w, r, err)
		return fields, nil, false
	}

	return fields, paths, true
}

func (h *Handler) checkPhotos(files []*multipart.FileHeader) error {
	if len(files) > h.maxPhotos {
		return common.NewValidationError("photos", fmt.Sprintf("at most %d photos are allowed", h.maxPhotos))
	}
	for _, fh := range files {
		if !photos.IsImage(fh.Header.Get("Content-Type"), fh.Filename) {
			return common.NewValidationError("photos", fmt.Sprintf("%s is not an image", fh.Filename))
		}
	}
	return nil
}

func (h *Handler) savePhotos(r *http.Request, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.discardPhotos(r, paths)
			return nil, err
		}
		p, err := h.photos.Save(r.Context(), fh.Filename, f)
		f.Close()
		if err != nil {
			h.discardPhotos(r, paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// discardPhotos removes photos stored for a request that did not go
// through. Failures are only logged.
func (h *Handler) discardPhotos(r *http.Request, paths []string) {
	// the request context may already be canceled
	ctx := context.WithoutCancel(r.Context())
	for _, p := range paths {
		if err := h.photos.Delete(ctx, p); err != nil {
			h.logger(r).Warn(ctx, "could not remove orphaned photo", "photo", p, "error", err.Error())
		}
	}
}

// propertyFormError re-renders the add or edit form with the submitted
// values, or falls back to fail for non-validation errors.
func (h *Handler) propertyFormError(w http.ResponseWriter, r *http.Request, page string, current *models.Property, fields models.PropertyFields, err error) {
	if !errors.Is(err, common.ErrorValidation) {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusBadRequest, page, &views.Data{
		Property: current,
		Error:    err.Error(),
		Form: views.Form{
			Title:       fields.Title,
			Type:        fields.Type,
			ListingType: fields.ListingType,
			Price:       fields.Price,
			Location:    fields.Location,
			Description: fields.Description,
		},
	})
}
