package properties

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

type JSONRepository struct {
	c *jsonstore.Collection[models.Property]
}

func NewJSONRepository(c *jsonstore.Collection[models.Property]) *JSONRepository {
	return &JSONRepository{c: c}
}

func (r *JSONRepository) List(ctx context.Context) ([]models.Property, error) {
	return r.c.Load(ctx)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
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

func (r *JSONRepository) Create(ctx context.Context, p *models.Property) error {
	return r.CreateMany(ctx, []models.Property{*p})
}

func (r *JSONRepository) CreateMany(ctx context.Context, ps []models.Property) error {
	if len(ps) == 0 {
		return nil
	}
	return r.c.Update(ctx, func(items []models.Property) ([]models.Property, error) {
		return append(items, ps...), nil
	})
}

func (r *JSONRepository) Update(ctx context.Context, id string, fn func(p *models.Property) error) (*models.Property, error) {
	var updated models.Property

	err := r.c.Update(ctx, func(items []models.Property) ([]models.Property, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, common.ErrorNotFound
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *JSONRepository) Delete(ctx context.Context, id string) error {
	return r.c.Update(ctx, func(items []models.Property) ([]models.Property, error) {
		kept := items[:0]
		for _, p := range items {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		return kept, nil
	})
}
