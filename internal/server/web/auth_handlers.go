package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/metrics"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/web/views"
)

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageRegister, nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	data := &views.Data{Form: views.Form{Name: name, Email: email}}

	u, err := h.users.Register(r.Context(), name, email, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEmail):
			data.Error = "Email already registered"
			h.render(w, r, http.StatusConflict, views.PageRegister, data)
		case errors.Is(err, common.ErrorValidation):
			data.Error = err.Error()
			h.render(w, r, http.StatusBadRequest, views.PageRegister, data)
		default:
			h.fail(w, r, err)
		}
		return
	}

	metrics.Registrations.Inc()
	h.logger(r).Info(r.Context(), "Registered", "user_id", u.ID)

	h.render(w, r, http.StatusOK, views.PageRegister, &views.Data{
		Success: "Registration successful! Please log in.",
	})
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageLogin, nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	data := &views.Data{Form: views.Form{Email: email}}

	ident, err := h.users.Authenticate(r.Context(), email, r.PostFormValue("password"))
	metrics.Logins.WithLabelValues("user", metrics.LoginResult(err)).Inc()
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			data.Error = "User not found"
		case errors.Is(err, common.ErrInvalidPassword):
			data.Error = "Invalid password"
		default:
			h.fail(w, r, err)
			return
		}
		h.render(w, r, http.StatusUnauthorized, views.PageLogin, data)
		return
	}

	// an admin who logs in as a user stays admin
	ident.Admin = IdentityFrom(r.Context()).IsAdmin()

	if err := h.sessions.Save(w, r, ident); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) adminLoginForm(w http.ResponseWriter, r *http.Request) {
	data := &views.Data{}
	if !h.users.AdminEnabled() {
		data.Error = "Admin login is disabled on this server."
	}
	h.render(w, r, http.StatusOK, views.PageAdminLogin, data)
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")

	err := h.users.AuthenticateAdmin(username, r.PostFormValue("password"))
	metrics.Logins.WithLabelValues("admin", metrics.LoginResult(err)).Inc()
	if err != nil {
		if !errors.Is(err, common.ErrInvalidCredentials) {
			h.fail(w, r, err)
			return
		}
		h.logger(r).Warn(r.Context(), "admin login failed", "username", username)
		h.render(w, r, http.StatusUnauthorized, views.PageAdminLogin, &views.Data{
			Error: "Invalid credentials",
			Form:  views.Form{Username: username},
		})
		return
	}

	ident := &models.Identity{Admin: true}
	if cur := IdentityFrom(r.Context()); cur != nil {
		merged := *cur
		merged.Admin = true
		ident = &merged
	}

	if err := h.sessions.Save(w, r, ident); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}
