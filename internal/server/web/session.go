package web

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/auth"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFrom returns the session identity stored by the session
// middleware, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *models.Identity {
	ident, _ := ctx.Value(identityKey).(*models.Identity)
	return ident
}

func withIdentity(ctx context.Context, ident *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// Sessions keeps the caller's identity in a signed, HttpOnly cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl}
}

// Load returns the identity in r's session cookie. Missing, expired or
// tampered cookies yield nil and the matching error.
func (s *Sessions) Load(r *http.Request) (*models.Identity, error) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	return auth.ParseToken(c.Value, s.secret)
}

// Save replaces the session with ident.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, ident *models.Identity) error {
	token, err := auth.GenerateToken(ident, s.secret, s.ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
