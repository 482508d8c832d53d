package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/filex"
	"github.com/dmitrijs2005/estateportal/internal/server/metrics"
	"github.com/dmitrijs2005/estateportal/internal/server/services"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	props, err := h.listings.List(r.Context(), services.Filter{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.PageAdminDashboard, &views.Data{Properties: props})
}

func (h *Handler) adminDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.listings.Delete(r.Context(), IdentityFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger(r).Info(r.Context(), "property deleted", "id", id)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *Handler) importForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageAdminImport, nil)
}

const importParseMessage = "Error reading Excel file. Please check format."

// importProperties stores the uploaded spreadsheet in the temp dir, imports
// it and removes it again whatever the outcome.
func (h *Handler) importProperties(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	f, fh, err := r.FormFile("excelFile")
	if err != nil {
		h.render(w, r, http.StatusBadRequest, views.PageAdminImport, &views.Data{
			Error: "Please choose an .xlsx or .csv file to import.",
		})
		return
	}
	defer f.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	dir, err := filex.EnsureDir(h.tempDir)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tmp, err := filex.WriteNew(dir, filex.TimestampedName(time.Now(), fh.Filename), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger(r).Warn(r.Context(), "could not remove import file", "path", tmp, "error", err.Error())
		}
	}()

	res, err := h.importer.ImportFile(r.Context(), IdentityFrom(r.Context()), tmp)
	if err != nil {
		if errors.Is(err, common.ErrImportParse) {
			h.logger(r).Warn(r.Context(), "import failed", "file", filepath.Base(fh.Filename), "error", err.Error())
			h.render(w, r, http.StatusBadRequest, views.PageAdminImport, &views.Data{Error: importParseMessage})
			return
		}
		h.fail(w, r, err)
		return
	}

	metrics.PropertiesImported.Add(float64(res.Imported))

	h.render(w, r, http.StatusOK, views.PageAdminImport, &views.Data{
		Success: fmt.Sprintf("%d properties imported successfully.", res.Imported),
		Result:  &views.ImportSummary{Imported: res.Imported, Skipped: res.Skipped},
	})
}
