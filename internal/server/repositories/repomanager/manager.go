package repomanager

import (
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/properties"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Properties() properties.Repository
	Blogs() blogs.Repository
}
