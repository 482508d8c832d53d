package users

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

type Repository interface {
	// Create stores a new user. It fails with common.ErrDuplicateEmail when
	// the email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
