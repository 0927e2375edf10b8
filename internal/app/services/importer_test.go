package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/services"
	"github.com/ekuznetsova/golinks/internal/app/storage"
	"github.com/ekuznetsova/golinks/internal/app/storage/mocks"
)

func TestLinkImporter(t *testing.T) {
	ctx := context.Background()

	t.Run("earlier entries win over later duplicates", func(t *testing.T) {
		store := storage.NewMapStorage(nil)
		importer := services.NewLinkImporter(store)

		imported, skipped, err := importer.Import(ctx, "a@example.com", []models.Link{
			{Code: "a", Destination: "http://x"},
			{Code: "a", Destination: "http://y"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, imported)
		assert.Equal(t, 1, skipped)

		link, err := store.FindByCode(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "http://x", link.Destination)
	})

	t.Run("incomplete entries fall out of both tallies", func(t *testing.T) {
		store := storage.NewMapStorage(nil)
		importer := services.NewLinkImporter(store)

		imported, skipped, err := importer.Import(ctx, "a@example.com", []models.Link{
			{Destination: "http://x"},
			{Code: "orphan"},
			{},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, imported)
		assert.Equal(t, 0, skipped)
	})

	t.Run("assigns the caller as owner and keeps provided clicks", func(t *testing.T) {
		store := storage.NewMapStorage(nil)
		importer := services.NewLinkImporter(store)

		imported, skipped, err := importer.Import(ctx, "a@example.com", []models.Link{
			{Code: "counted", Destination: "http://x", Clicks: 42, OwnerEmail: "sneaky@example.com"},
			{Code: "fresh", Destination: "http://y"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, imported)
		assert.Equal(t, 0, skipped)

		counted, err := store.FindByCode(ctx, "counted")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", counted.OwnerEmail)
		assert.Equal(t, uint64(42), counted.Clicks)

		fresh, err := store.FindByCode(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), fresh.Clicks)
	})

	t.Run("keeps earlier inserts when a later one fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storageMock := mocks.NewMockStorage(ctrl)
		gomock.InOrder(
			storageMock.EXPECT().
				FindByCode(gomock.Any(), "first").
				Return(models.Link{}, storage.ErrNotFound),
			storageMock.EXPECT().
				Save(gomock.Any(), gomock.Any()).
				Return(nil),
			storageMock.EXPECT().
				FindByCode(gomock.Any(), "second").
				Return(models.Link{}, storage.ErrNotFound),
			storageMock.EXPECT().
				Save(gomock.Any(), gomock.Any()).
				Return(assert.AnError),
		)

		importer := services.NewLinkImporter(storageMock)
		imported, skipped, err := importer.Import(ctx, "a@example.com", []models.Link{
			{Code: "first", Destination: "http://x"},
			{Code: "second", Destination: "http://y"},
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, imported)
		assert.Equal(t, 0, skipped)
	})
}
