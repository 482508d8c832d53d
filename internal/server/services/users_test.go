package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/config"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T, m repomanager.RepositoryManager, adminPassword string) *UserService {
	t.Helper()
	cfg := &config.Config{
		BcryptCost:    bcrypt.MinCost,
		AdminUsername: "admin",
		AdminPassword: adminPassword,
	}
	s := NewUserService(m, cfg)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	s := newUserService(t, m, "")

	u, err := s.Register(ctx, " Ann ", " Ann@Example.COM ", "pw")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "pw", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("pw")))
	assert.True(t, fixedNow.Equal(u.Date))

	stored, err := m.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	s := newUserService(t, m, "")

	first, err := s.Register(ctx, "Ann", "ann@example.com", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "Other", "ANN@example.com", "pw2")
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	stored, err := m.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Ann", stored.Name)
	assert.Equal(t, first.Password, stored.Password)
}

func TestUserService_Register_Validation(t *testing.T) {
	m, _ := newManager(t)
	s := newUserService(t, m, "")

	cases := []struct{ name, email, password string }{
		{"", "a@b.c", "pw"},
		{"Ann", "  ", "pw"},
		{"Ann", "a@b.c", ""},
	}
	for _, c := range cases {
		_, err := s.Register(context.Background(), c.name, c.email, c.password)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}

func TestUserService_Register_Concurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	s := newUserService(t, m, "")

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Register(ctx, "Ann", "same@example.com", "pw"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	s := newUserService(t, m, "")

	u, err := s.Register(ctx, "Ann", "ann@example.com", "secret")
	require.NoError(t, err)

	ident, err := s.Authenticate(ctx, "ANN@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, ident.ID)
	assert.Equal(t, "Ann", ident.Name)
	assert.Equal(t, "ann@example.com", ident.Email)
	assert.False(t, ident.Admin)

	_, err = s.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidPassword)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserService_AuthenticateAdmin(t *testing.T) {
	m, _ := newManager(t)

	t.Run("plain password", func(t *testing.T) {
		s := newUserService(t, m, "hunter2")
		assert.True(t, s.AdminEnabled())
		assert.NoError(t, s.AuthenticateAdmin("admin", "hunter2"))
		assert.ErrorIs(t, s.AuthenticateAdmin("admin", "wrong"), common.ErrInvalidCredentials)
		assert.ErrorIs(t, s.AuthenticateAdmin("root", "hunter2"), common.ErrInvalidCredentials)
	})

	t.Run("bcrypt hash", func(t *testing.T) {
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
		require.NoError(t, err)

		s := newUserService(t, m, string(hash))
		assert.NoError(t, s.AuthenticateAdmin("admin", "hunter2"))
		assert.ErrorIs(t, s.AuthenticateAdmin("admin", string(hash)), common.ErrInvalidCredentials)
	})

	t.Run("disabled without password", func(t *testing.T) {
		s := newUserService(t, m, "")
		assert.False(t, s.AdminEnabled())
		assert.ErrorIs(t, s.AuthenticateAdmin("admin", ""), common.ErrInvalidCredentials)
	})
}
