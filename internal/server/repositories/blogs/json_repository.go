package blogs

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

type JSONRepository struct {
	c *jsonstore.Collection[models.Blog]
}

func NewJSONRepository(c *jsonstore.Collection[models.Blog]) *JSONRepository {
	return &JSONRepository{c: c}
}

func (r *JSONRepository) List(ctx context.Context) ([]models.Blog, error) {
	return r.c.Load(ctx)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	items, err := r.c.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, common.ErrorNotFound
}
