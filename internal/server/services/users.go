package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/server/config"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService registers accounts and checks user and admin credentials.
type UserService struct {
	repomanager   repomanager.RepositoryManager
	bcryptCost    int
	adminUsername string
	adminPassword string
	now           func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{
		repomanager:   m,
		bcryptCost:    cost,
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		now:           time.Now,
	}
}

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	switch {
	case name == "":
		return nil, common.NewValidationError("name", "is required")
	case email == "":
		return nil, common.NewValidationError("email", "is required")
	case password == "":
		return nil, common.NewValidationError("password", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Date:     s.now().UTC(),
	}

	user, err = s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidPassword
	}

	return user.Identity(), nil
}

// AdminEnabled reports whether an admin password is configured.
func (s *UserService) AdminEnabled() bool {
	return s.adminPassword != ""
}

// AuthenticateAdmin checks the configured admin credentials. The configured
// password may be a bcrypt hash ("$2...") or plain text.
func (s *UserService) AuthenticateAdmin(username, password string) error {
	if !s.AdminEnabled() {
		return common.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1

	var passOK bool
	if isBcryptHash(s.adminPassword) {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.adminPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	}

	if !userOK || !passOK {
		return common.ErrInvalidCredentials
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2") && len(s) == 60
}
