// Package repomanager vends the repositories backed by the JSON files in the
// data directory: users.json, properties.json and blogs.json.
package repomanager

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/properties"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/users"
)

const (
	UsersFile      = "users.json"
	PropertiesFile = "properties.json"
	BlogsFile      = "blogs.json"
)

type JSONRepositoryManager struct {
	users      *users.JSONRepository
	properties *properties.JSONRepository
	blogs      *blogs.JSONRepository
}

// NewJSONRepositoryManager opens (and creates when missing) the three
// collection files under dataDir. opts apply to every collection.
func NewJSONRepositoryManager(dataDir string, opts ...jsonstore.Option) (*JSONRepositoryManager, error) {
	uc, err := jsonstore.Open[models.User](filepath.Join(dataDir, UsersFile), opts...)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}

	pc, err := jsonstore.Open[models.Property](filepath.Join(dataDir, PropertiesFile), opts...)
	if err != nil {
		return nil, fmt.Errorf("open properties: %w", err)
	}

	bc, err := jsonstore.Open[models.Blog](filepath.Join(dataDir, BlogsFile), opts...)
	if err != nil {
		return nil, fmt.Errorf("open blogs: %w", err)
	}

	return &JSONRepositoryManager{
		users:      users.NewJSONRepository(uc),
		properties: properties.NewJSONRepository(pc),
		blogs:      blogs.NewJSONRepository(bc),
	}, nil
}

func (m *JSONRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *JSONRepositoryManager) Properties() properties.Repository {
	return m.properties
}

func (m *JSONRepositoryManager) Blogs() blogs.Repository {
	return m.blogs
}
