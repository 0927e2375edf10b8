package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekuznetsova/golinks/internal/app/models"
)

// ErrNotFound is returned by lookups when no link matches
var ErrNotFound = errors.New("record not found")

// ErrCodeTaken is returned by Save when the code is already in use
type ErrCodeTaken struct {
	Code string
}

func NewErrCodeTaken(code string) error {
	return &ErrCodeTaken{Code: code}
}

// Error implements the error interface
func (err *ErrCodeTaken) Error() string {
	return fmt.Sprintf("code %q is already taken", err.Code)
}

// Storage of link records. Codes are unique across the whole store; owner
// scoping applies only to FindByOwner and Delete.
type Storage interface {
	// FindByCode returns the link with the given code regardless of owner
	FindByCode(ctx context.Context, code string) (models.Link, error)
	// FindByOwner returns the owner's links, newest first
	FindByOwner(ctx context.Context, owner string) ([]models.Link, error)
	// FindAll returns every link, newest first
	FindAll(ctx context.Context) ([]models.Link, error)
	// Save inserts a new link; an existing record is never overwritten
	Save(ctx context.Context, link models.Link) error
	// IncrementClicks adds one to the link's click counter
	IncrementClicks(ctx context.Context, code string) error
	// Delete removes the link with the given code. A non-empty owner
	// restricts the delete to that owner's records. Deleting a missing or
	// foreign code is a no-op, not an error.
	Delete(ctx context.Context, code, owner string) error
}
