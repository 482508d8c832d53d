package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
)

type BlogService struct {
	repomanager repomanager.RepositoryManager
}

func NewBlogService(m repomanager.RepositoryManager) *BlogService {
	return &BlogService{repomanager: m}
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	items, err := s.repomanager.Blogs().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing blogs: %w", err)
	}
	return items, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.Blog, error) {
	return s.repomanager.Blogs().GetByID(ctx, id)
}

// Latest returns the first n posts in file order.
func (s *BlogService) Latest(ctx context.Context, n int) ([]models.Blog, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items, nil
}
