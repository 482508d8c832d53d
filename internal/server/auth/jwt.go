// Package auth issues and verifies the signed session tokens stored in the
// portal's session cookie.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session identity next to the standard registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// GenerateToken signs ident with HS256. The user id travels as the subject.
func GenerateToken(ident *models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	if ident == nil || ident.IsAnonymous() {
		return "", common.ErrInvalidToken
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Name:  ident.Name,
		Email: ident.Email,
		Admin: ident.Admin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns the identity it carries.
// Expired tokens yield common.ErrTokenExpired; anything else that fails
// verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	ident := &models.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Admin: claims.Admin,
	}
	if ident.IsAnonymous() {
		return nil, common.ErrInvalidToken
	}

	return ident, nil
}
