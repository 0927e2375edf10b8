package services

import (
	"context"
	"errors"

	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

type LinkImporter interface {
	Import(ctx context.Context, owner string, entries []models.Link) (imported, skipped int, err error)
}

type linkImporter struct {
	store storage.Storage
}

func NewLinkImporter(store storage.Storage) LinkImporter {
	return linkImporter{store: store}
}

// Import processes entries strictly in order: with duplicate codes in one
// batch the first entry wins. Entries without a code or destination are
// dropped without counting. The loop is not wrapped in a transaction, so
// links inserted before a mid-loop failure stay committed.
func (service linkImporter) Import(ctx context.Context, owner string, entries []models.Link) (int, int, error) {
	var imported, skipped int
	for _, entry := range entries {
		if entry.Code == "" || entry.Destination == "" {
			continue
		}

		_, err := service.store.FindByCode(ctx, entry.Code)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return imported, skipped, err
		}

		link := models.Link{
			Code:        entry.Code,
			Destination: entry.Destination,
			OwnerEmail:  owner,
			Clicks:      entry.Clicks,
		}
		if err := service.store.Save(ctx, link); err != nil {
			return imported, skipped, err
		}
		imported++
	}

	return imported, skipped, nil
}
