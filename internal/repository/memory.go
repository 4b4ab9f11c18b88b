package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"shortlink-be/internal/entities"
)

// MemoryLinkRepository keeps links in a map guarded by a mutex.
// Records are cloned on the way in and out.
type MemoryLinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*entities.Link
	nextID int64
}

func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		links: make(map[string]*entities.Link),
	}
}

func (r *MemoryLinkRepository) Insert(ctx context.Context, link *entities.Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.ShortID]; exists {
		return ErrDuplicateShortID
	}

	r.nextID++
	link.ID = r.nextID
	r.links[link.ShortID] = link.Clone()
	return nil
}

func (r *MemoryLinkRepository) FindByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, exists := r.links[shortID]
	if !exists {
		return nil, ErrNotFound
	}
	return link.Clone(), nil
}

func (r *MemoryLinkRepository) ListAll(ctx context.Context) ([]*entities.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	links := make([]*entities.Link, 0, len(r.links))
	for _, link := range r.links {
		links = append(links, link.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].ID > links[j].ID
		}
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (r *MemoryLinkRepository) DeleteByShortID(ctx context.Context, shortID string) (*entities.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[shortID]
	if !exists {
		return nil, ErrNotFound
	}
	delete(r.links, shortID)
	return link, nil
}

func (r *MemoryLinkRepository) IncrementClickCount(ctx context.Context, shortID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[shortID]
	if !exists {
		return 0, ErrNotFound
	}
	link.ClickCount++
	return link.ClickCount, nil
}

func (r *MemoryLinkRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, link := range r.links {
		if link.ExpiresAt != nil && link.ExpiresAt.Before(before) {
			delete(r.links, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryLinkRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
