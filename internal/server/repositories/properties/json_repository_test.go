package properties

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/common"
	"github.com/dmitrijs2005/estateportal/internal/jsonstore"
	"github.com/dmitrijs2005/estateportal/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *JSONRepository {
	t.Helper()
	c, err := jsonstore.Open[models.Property](filepath.Join(t.TempDir(), "properties.json"))
	require.NoError(t, err)
	return NewJSONRepository(c)
}

func sample(id string) models.Property {
	modified := time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC)
	return models.Property{
		ID:           id,
		Title:        "Cozy flat " + id,
		Type:         "Apartment",
		ListingType:  models.ListingRent,
		Price:        1250.5,
		Location:     "Springfield",
		Description:  "Two rooms",
		Photos:       []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		MainPhoto:    "/uploads/a.jpg",
		UserID:       "u-1",
		UserName:     "Alice",
		Date:         time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		DateModified: &modified,
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := sample("p-1")

	require.NoError(t, repo.Create(ctx, &p))

	got, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(p, *got))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]models.Property{p}, all))
}

func TestCreateMany_KeepsOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	first := sample("p-0")
	require.NoError(t, repo.Create(ctx, &first))

	require.NoError(t, repo.CreateMany(ctx, []models.Property{sample("p-1"), sample("p-2")}))
	require.NoError(t, repo.CreateMany(ctx, nil))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p-0", "p-1", "p-2"}, ids)
}

func TestUpdate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := sample("p-1")
	require.NoError(t, repo.Create(ctx, &p))

	got, err := repo.Update(ctx, "p-1", func(p *models.Property) error {
		p.Title = "Renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	stored, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.True(t, p.Date.Equal(stored.Date))
}

func TestUpdate_NotFoundAndAbort(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := sample("p-1")
	require.NoError(t, repo.Create(ctx, &p))

	_, err := repo.Update(ctx, "missing", func(*models.Property) error { return nil })
	assert.ErrorIs(t, err, common.ErrorNotFound)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "p-1", func(p *models.Property) error {
		p.Title = "never stored"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, p.Title, stored.Title)
}

func TestDelete_Idempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateMany(ctx, []models.Property{sample("p-1"), sample("p-2")}))

	require.NoError(t, repo.Delete(ctx, "p-1"))
	require.NoError(t, repo.Delete(ctx, "p-1"))
	require.NoError(t, repo.Delete(ctx, "unknown"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p-2", all[0].ID)

	_, err = repo.GetByID(ctx, "p-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
