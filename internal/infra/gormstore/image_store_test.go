package gormstore

import (
	"context"
	"testing"

	"image-api/config"
	"image-api/database"
	"image-api/internal/domain/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func setupStore(t *testing.T) *ImageStore {
	t.Helper()
	db, err := database.Open(config.DriverSQLite, ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewImageStore(db)
}

func TestImageStore_CreateAssignsID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, media.Fields{Title: ptr("a"), File: ptr("images/a.jpg")})
	require.NoError(t, err)
	second, err := store.Create(ctx, media.Fields{Title: ptr("b"), File: ptr("images/b.jpg")})
	require.NoError(t, err)

	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestImageStore_GetAfterCreate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, media.Fields{
		Title:       ptr("sunset"),
		Description: ptr("over the bay"),
		File:        ptr("images/sunset.png"),
		ContentType: ptr("image/png"),
		Width:       ptr(640),
		Height:      ptr(480),
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "sunset", got.Title)
	assert.Equal(t, "over the bay", got.Description)
	assert.Equal(t, "images/sunset.png", got.File)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, 640, got.Width)
	assert.Equal(t, 480, got.Height)
}

func TestImageStore_GetMissing(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, media.ErrNotFound)
}

func TestImageStore_ListOrderedByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"x", "y", "z"} {
		_, err := store.Create(ctx, media.Fields{Title: ptr(title), File: ptr(title + ".jpg")})
		require.NoError(t, err)
	}

	images, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "x", images[0].Title)
	assert.Equal(t, "z", images[2].Title)
}

func TestImageStore_PartialUpdate(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, media.Fields{
		Title:       ptr("before"),
		Description: ptr("unchanged"),
		File:        ptr("images/a.jpg"),
	})
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, media.Fields{Title: ptr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "unchanged", updated.Description)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "unchanged", got.Description)
	assert.Equal(t, "images/a.jpg", got.File)
}

func TestImageStore_UpdateMissing(t *testing.T) {
	store := setupStore(t)

	_, err := store.Update(context.Background(), 9, media.Fields{Title: ptr("x")})
	assert.ErrorIs(t, err, media.ErrNotFound)

	images, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageStore_Delete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, media.Fields{Title: ptr("gone"), File: ptr("g.jpg")})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)

	err = store.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)
}
