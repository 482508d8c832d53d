package blogs

import (
	"context"

	"github.com/dmitrijs2005/estateportal/internal/server/models"
)

// Repository is read-only; blog posts are written outside the app.
type Repository interface {
	List(ctx context.Context) ([]models.Blog, error)
	GetByID(ctx context.Context, id string) (*models.Blog, error)
}
