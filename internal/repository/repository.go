package repository

import (
	"context"
	"errors"
	"time"

	"shortlink-be/internal/entities"
)

var (
	// ErrNotFound is returned when no link has the requested short id.
	ErrNotFound = errors.New("link not found")
	// ErrDuplicateShortID is returned by Insert when the short id is taken.
	ErrDuplicateShortID = errors.New("short id already exists")
)

// LinkRepository defines the storage operations for links.
// Implementations enforce short id uniqueness themselves.
type LinkRepository interface {
	Insert(ctx context.Context, link *entities.Link) error
	FindByShortID(ctx context.Context, shortID string) (*entities.Link, error)
	// ListAll returns every link, newest first.
	ListAll(ctx context.Context) ([]*entities.Link, error)
	// DeleteByShortID removes the link and returns the removed record.
	DeleteByShortID(ctx context.Context, shortID string) (*entities.Link, error)
	// IncrementClickCount atomically adds one click and returns the new count.
	IncrementClickCount(ctx context.Context, shortID string) (int64, error)
	// DeleteExpired removes links whose expiry is strictly before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	Ping(ctx context.Context) error
}
