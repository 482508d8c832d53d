package properties

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

// Repository stores listings in file insertion order.
type Repository interface {
	List(ctx context.Context) ([]models.Property, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	// CreateMany appends all of ps in a single write.
	CreateMany(ctx context.Context, ps []models.Property) error
	// Update applies fn to the stored property under the collection's write
	// lock and persists the result. fn's error aborts the write.
	Update(ctx context.Context, id string, fn func(p *models.Property) error) (*models.Property, error)
	// Delete removes the property; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
