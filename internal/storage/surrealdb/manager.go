// Package surrealdb implements the persistent stores on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	userStore     *UserStore
	historyStore  *HistoryStore
	favoriteStore *FavoriteStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineSchema(ctx, db); err != nil {
		return nil, err
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}
	m.userStore = NewUserStore(db, logger)
	m.historyStore = NewHistoryStore(db, logger)
	m.favoriteStore = NewFavoriteStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

// defineSchema creates the tables and indexes so queries against an empty
// database don't error. The (username, symbol) unique index enforces
// favorite uniqueness at the store level; a duplicate insert is rejected,
// not an application error.
func defineSchema(ctx context.Context, db *surrealdb.DB) error {
	defs := []string{
		"DEFINE TABLE IF NOT EXISTS user SCHEMALESS",
		"DEFINE TABLE IF NOT EXISTS history SCHEMALESS",
		"DEFINE TABLE IF NOT EXISTS favorite SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS favorite_user_symbol ON favorite FIELDS username, symbol UNIQUE",
	}
	for _, sql := range defs {
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define schema: %w", err)
		}
	}
	return nil
}

func (m *Manager) Users() interfaces.UserStore {
	return m.userStore
}

func (m *Manager) History() interfaces.HistoryStore {
	return m.historyStore
}

func (m *Manager) Favorites() interfaces.FavoriteStore {
	return m.favoriteStore
}

func (m *Manager) Close() error {
	return m.db.Close(context.Background())
}

// isNotFoundError reports whether a SurrealDB error means the record does
// not exist, as opposed to a transport or query failure.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// isDuplicateError reports whether a SurrealDB error is a unique-index or
// existing-record collision.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already contains")
}
