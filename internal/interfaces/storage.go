package interfaces

import (
	"context"

	"github.com/okabet/tickerscope/internal/models"
)

// StorageManager coordinates the persistent stores.
type StorageManager interface {
	Users() UserStore
	History() HistoryStore
	Favorites() FavoriteStore

	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	// GetUser returns models.ErrUserNotFound when no account exists.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// CreateUser returns models.ErrDuplicateUser on a username collision.
	CreateUser(ctx context.Context, user *models.User) error

	DeleteUser(ctx context.Context, username string) error
}

// HistoryStore manages the append-only search history.
type HistoryStore interface {
	// RecordSearch appends a history row; duplicates are expected and are
	// collapsed at read time.
	RecordSearch(ctx context.Context, username, symbol string) error

	// RecentSymbols returns up to models.HistoryLimit distinct symbols,
	// most-recent first, duplicates collapsed to their latest occurrence.
	RecentSymbols(ctx context.Context, username string) ([]string, error)

	// DeleteAll removes every history row for the user, returning the count.
	DeleteAll(ctx context.Context, username string) (int, error)
}

// FavoriteStore manages the per-user favorite symbol set.
type FavoriteStore interface {
	// Add inserts a favorite. Returns false (and no error) when the store
	// rejects the write, e.g. a duplicate (username, symbol) pair.
	Add(ctx context.Context, username, symbol string) (bool, error)

	// Remove is idempotent; removing a non-existent favorite is not an error.
	Remove(ctx context.Context, username, symbol string) error

	// List returns the favorite symbols for the user, unordered.
	List(ctx context.Context, username string) ([]string, error)

	// DeleteAll removes every favorite for the user, returning the count.
	DeleteAll(ctx context.Context, username string) (int, error)
}
