package users

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

type JSONRepository struct {
	c *jsonstore.Collection[models.User]
}

func NewJSONRepository(c *jsonstore.Collection[models.User]) *JSONRepository {
	return &JSONRepository{c: c}
}

// Create checks email uniqueness inside the locked write, so two concurrent
// registrations for the same address cannot both succeed.
func (r *JSONRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.c.Update(ctx, func(items []models.User) ([]models.User, error) {
		for _, u := range items {
			if u.Email == user.Email {
				return nil, common.ErrDuplicateEmail
			}
		}
		return append(items, *user), nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *JSONRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.Email == email })
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == id })
}

func (r *JSONRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	items, err := r.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(&items[i]) {
			return &items[i], nil
		}
	}
	return nil, common.ErrorNotFound
}
