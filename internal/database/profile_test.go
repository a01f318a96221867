package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varoOP/reelshelf/internal/domain"
)

func newTestRepo(t *testing.T) domain.ProfileRepo {
	t.Helper()
	db, err := NewDB(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProfileRepo(zerolog.Nop(), db)
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Close())

	reopened, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, reopened.Ping())

	var version int
	require.NoError(t, reopened.handler.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, len(migrations), version)
	require.NoError(t, reopened.Close())
}

func TestMigrateRejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := NewDB(dir, zerolog.Nop())
	require.NoError(t, err)
	_, err = db.handler.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations)+1))
	require.NoError(t, err)

	assert.ErrorContains(t, db.Migrate(), "newer than supported")
	require.NoError(t, db.Close())
}

func TestProfileUpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.Profile{
		UserID:         "u1",
		Name:           "Ada",
		Email:          "ada@example.com",
		FavoriteGenres: []string{"Drama", "Comedy"},
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.Profile{
		UserID:   "u1",
		Name:     "Ada L.",
		Birthday: "1815-12-10",
	}))

	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", p.Name)
	assert.Equal(t, "", p.Email)
	assert.Equal(t, "1815-12-10", p.Birthday)
	assert.Empty(t, p.FavoriteGenres)
}

func TestFavoritesSetOperations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	has, err := repo.HasFavorite(ctx, "u1", "movie:603")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.AddFavorite(ctx, "u1", "movie:603"))
	require.NoError(t, repo.AddFavorite(ctx, "u1", "tv:1399"))
	require.NoError(t, repo.AddFavorite(ctx, "u1", "movie:603"))
	require.NoError(t, repo.AddFavorite(ctx, "u2", "movie:11"))

	keys, err := repo.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"movie:603", "tv:1399"}, keys)

	has, err = repo.HasFavorite(ctx, "u1", "tv:1399")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, repo.RemoveFavorite(ctx, "u1", "movie:603"))
	require.NoError(t, repo.RemoveFavorite(ctx, "u1", "movie:999"))

	keys, err = repo.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tv:1399"}, keys)

	require.NoError(t, repo.Upsert(ctx, &domain.Profile{UserID: "u1", Name: "Ada"}))
	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tv:1399"}, p.Favorites)
}
