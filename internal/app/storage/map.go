package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ekuznetsova/golinks/internal/app/logger"
	"github.com/ekuznetsova/golinks/internal/app/models"
)

// Inmemory storage. Codes are the only lookup key, so a single map keyed by
// code is enough; requests are served concurrently, hence the lock.
type MapStorage struct {
	mu    sync.RWMutex
	links map[string]models.Link
	fs    *FileStorage
}

// New inmemory storage
func NewMapStorage(fs *FileStorage) *MapStorage {
	return &MapStorage{
		links: make(map[string]models.Link),
		fs:    fs,
	}
}

// Find link by code
func (ms *MapStorage) FindByCode(ctx context.Context, code string) (models.Link, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	link, ok := ms.links[code]
	if !ok {
		return models.Link{}, ErrNotFound
	}

	return link, nil
}

// Find owner links, newest first
func (ms *MapStorage) FindByOwner(ctx context.Context, owner string) ([]models.Link, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.Link, 0)
	for _, link := range ms.links {
		if link.OwnerEmail == owner {
			result = append(result, link)
		}
	}
	sortNewestFirst(result)

	return result, nil
}

// Find all links, newest first
func (ms *MapStorage) FindAll(ctx context.Context) ([]models.Link, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.Link, 0, len(ms.links))
	for _, link := range ms.links {
		result = append(result, link)
	}
	sortNewestFirst(result)

	return result, nil
}

// Save link
func (ms *MapStorage) Save(ctx context.Context, link models.Link) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.links[link.Code]; ok {
		return NewErrCodeTaken(link.Code)
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	ms.links[link.Code] = link

	return nil
}

// Increment link clicks
func (ms *MapStorage) IncrementClicks(ctx context.Context, code string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	link, ok := ms.links[code]
	if !ok {
		return nil
	}
	link.Clicks++
	ms.links[code] = link

	return nil
}

// Delete link. A missing or foreign code is a silent no-op.
func (ms *MapStorage) Delete(ctx context.Context, code, owner string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	link, ok := ms.links[code]
	if !ok {
		return nil
	}
	if owner != "" && link.OwnerEmail != owner {
		return nil
	}
	delete(ms.links, code)

	return nil
}

// Dump inmemory storage to file
func (ms *MapStorage) Dump() error {
	if ms.fs == nil {
		return nil
	}

	ms.mu.RLock()
	snapshot := make([]models.Link, 0, len(ms.links))
	for _, link := range ms.links {
		snapshot = append(snapshot, link)
	}
	ms.mu.RUnlock()

	return ms.fs.Dump(snapshot)
}

// Restore inmemory storage from file
func (ms *MapStorage) Restore(links []models.Link) {
	ctx := context.TODO()
	for _, link := range links {
		if err := ms.Save(ctx, link); err != nil {
			logger.Log.Info("failed to restore", zap.Error(err))
		}
	}
}

func sortNewestFirst(links []models.Link) {
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
}
