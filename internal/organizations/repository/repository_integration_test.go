package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/wjlander/choo/internal/organizations/domain"
)

func TestRepository_Integration(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("skipping integration test: DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
	require.NoError(t, err)
	defer pool.Close()

	repo := New(pool)
	suffix := uuid.New().String()
	o := domain.Organization{ID: uuid.New(), Name: "itest-" + suffix, Slug: "itest-" + suffix}
	require.NoError(t, repo.Create(ctx, o))
	assert.ErrorIs(t, repo.Create(ctx, domain.Organization{ID: uuid.New(), Name: "other-" + suffix, Slug: o.Slug}), domain.ErrDuplicate)

	got, err := repo.GetBySlug(ctx, o.Slug)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.True(t, got.IsActive)

	items, total, err := repo.List(ctx, suffix, 1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	require.NoError(t, repo.Deactivate(ctx, o.ID))
	items, _, err = repo.List(ctx, suffix, 0, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsActive)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
