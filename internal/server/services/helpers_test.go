package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/dmitrijs2005/estateportal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newManager(t *testing.T) (*repomanager.JSONRepositoryManager, string) {
	t.Helper()
	dir := t.TempDir()
	m, err := repomanager.NewJSONRepositoryManager(dir)
	require.NoError(t, err)
	return m, dir
}

func seedProperties(t *testing.T, m repomanager.RepositoryManager, ps ...models.Property) {
	t.Helper()
	require.NoError(t, m.Properties().CreateMany(context.Background(), ps))
}

func writeBlogs(t *testing.T, dir string, bs ...models.Blog) {
	t.Helper()
	b, err := json.Marshal(bs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, repomanager.BlogsFile), b, 0o600))
}

func readRawProperties(t *testing.T, dir string) []map[string]any {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, repomanager.PropertiesFile))
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}
