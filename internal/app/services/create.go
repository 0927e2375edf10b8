package services

import (
	"context"
	"errors"

	"github.com/ekuznetsova/golinks/internal/app/models"
	"github.com/ekuznetsova/golinks/internal/app/storage"
)

type LinkCreator interface {
	Create(ctx context.Context, link models.Link) error
}

type linkCreator struct {
	store storage.Storage
	// globalCheck enables the explicit existence check before insert. The
	// check and the insert are separate statements, so two concurrent
	// creates can both pass it; the store's unique constraint stays the
	// backstop and still surfaces as *storage.ErrCodeTaken.
	globalCheck bool
}

func NewLinkCreator(store storage.Storage, globalCheck bool) LinkCreator {
	return linkCreator{
		store:       store,
		globalCheck: globalCheck,
	}
}

func (service linkCreator) Create(ctx context.Context, link models.Link) error {
	if service.globalCheck {
		_, err := service.store.FindByCode(ctx, link.Code)
		if err == nil {
			return storage.NewErrCodeTaken(link.Code)
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}

	return service.store.Save(ctx, link)
}
