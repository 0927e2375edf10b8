package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

func TestMapStorageSave(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMapStorage(nil)

	require.NoError(t, store.Save(ctx, models.Link{Code: "docs", Destination: "http://example.com"}))

	t.Run("populates created_at on insert", func(t *testing.T) {
		link, err := store.FindByCode(ctx, "docs")
		require.NoError(t, err)
		assert.False(t, link.CreatedAt.IsZero())
	})

	t.Run("rejects a duplicate code regardless of owner", func(t *testing.T) {
		err := store.Save(ctx, models.Link{Code: "docs", Destination: "http://other.example.com", OwnerEmail: "b@example.com"})

		var takenErr *storage.ErrCodeTaken
		require.ErrorAs(t, err, &takenErr)
		assert.Equal(t, "docs", takenErr.Code)
	})

	t.Run("find misses answer ErrNotFound", func(t *testing.T) {
		_, err := store.FindByCode(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestMapStorageIncrementClicks(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMapStorage(nil)
	require.NoError(t, store.Save(ctx, models.Link{Code: "docs", Destination: "http://example.com"}))

	for i := 0; i < 5; i++ {
		require.NoError(t, store.IncrementClicks(ctx, "docs"))
	}
	// Unknown codes are a no-op
	require.NoError(t, store.IncrementClicks(ctx, "missing"))

	link, err := store.FindByCode(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), link.Clicks)
}

func TestMapStorageOwnerScoping(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMapStorage(nil)
	createdAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, models.Link{Code: "a-old", OwnerEmail: "a@example.com", Destination: "http://x", CreatedAt: createdAt}))
	require.NoError(t, store.Save(ctx, models.Link{Code: "a-new", OwnerEmail: "a@example.com", Destination: "http://y", CreatedAt: createdAt.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, models.Link{Code: "b", OwnerEmail: "b@example.com", Destination: "http://z", CreatedAt: createdAt}))

	t.Run("FindByOwner returns only the owner's links newest first", func(t *testing.T) {
		links, err := store.FindByOwner(ctx, "a@example.com")
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "a-new", links[0].Code)
		assert.Equal(t, "a-old", links[1].Code)
	})

	t.Run("FindAll returns everything newest first", func(t *testing.T) {
		links, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "a-new", links[0].Code)
	})

	t.Run("scoped delete ignores another owner's link", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "b", "a@example.com"))

		link, err := store.FindByCode(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", link.OwnerEmail)
	})

	t.Run("scoped delete removes the owner's link", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a-old", "a@example.com"))

		_, err := store.FindByCode(ctx, "a-old")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("unscoped delete removes any link", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "b", ""))

		_, err := store.FindByCode(ctx, "b")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("deleting a missing code is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "missing", "a@example.com"))
	})
}

func TestMapStorageDumpAndRestore(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFileStorage(t.TempDir() + "/links.jsonl")
	store := storage.NewMapStorage(fs)
	require.NoError(t, store.Save(ctx, models.Link{Code: "docs", Destination: "http://example.com", Clicks: 3}))
	require.NoError(t, store.Dump())

	links, err := fs.Snapshot()
	require.NoError(t, err)

	restored := storage.NewMapStorage(nil)
	restored.Restore(links)
	link, err := restored.FindByCode(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", link.Destination)
	assert.Equal(t, uint64(3), link.Clicks)
}
