package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	ident := &models.Identity{ID: "user-123", Name: "Ann", Email: "ann@example.com", Admin: true}

	tok, err := GenerateToken(ident, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, ident, got)
}

func TestGenerateAndParse_AdminOnly(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, err := GenerateToken(&models.Identity{Admin: true}, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.False(t, got.IsUser())
}

func TestGenerateToken_Anonymous(t *testing.T) {
	t.Parallel()

	_, err := GenerateToken(&models.Identity{}, []byte("s"), time.Hour)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = GenerateToken(nil, []byte("s"), time.Hour)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(&models.Identity{ID: "u1"}, secret, -1*time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(&models.Identity{ID: "u2"}, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u3"},
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(s, []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
