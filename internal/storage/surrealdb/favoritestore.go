package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// Compile-time interface check
var _ interfaces.FavoriteStore = (*FavoriteStore)(nil)

// FavoriteStore manages per-user favorite symbol records.
type FavoriteStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewFavoriteStore(db *surrealdb.DB, logger *common.Logger) *FavoriteStore {
	return &FavoriteStore{
		db:     db,
		logger: logger,
	}
}

func favoriteRecordID(username, symbol string) string {
	return username + "_" + symbol
}

// Add stores a favorite and reports whether a new record was created.
// An existing (username, symbol) pair returns false without error.
func (s *FavoriteStore) Add(ctx context.Context, username, symbol string) (bool, error) {
	entry := models.FavoriteEntry{
		Username: username,
		Symbol:   symbol,
		AddedAt:  time.Now().UTC(),
	}
	sql := "CREATE type::record('favorite', $id) CONTENT $entry"
	vars := map[string]any{
		"id":    favoriteRecordID(username, symbol),
		"entry": entry,
	}

	if _, err := surrealdb.Query[[]models.FavoriteEntry](ctx, s.db, sql, vars); err != nil {
		if isDuplicateError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logger.Debug().
		Str("username", username).
		Str("symbol", symbol).
		Msg("Favorite added")
	return true, nil
}

func (s *FavoriteStore) Remove(ctx context.Context, username, symbol string) error {
	recordID := surrealmodels.NewRecordID("favorite", favoriteRecordID(username, symbol))
	_, err := surrealdb.Delete[models.FavoriteEntry](ctx, s.db, recordID)
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) List(ctx context.Context, username string) ([]string, error) {
	sql := "SELECT * FROM favorite WHERE username = $username ORDER BY added_at ASC"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.FavoriteEntry](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	var symbols []string
	if results != nil && len(*results) > 0 {
		for _, entry := range (*results)[0].Result {
			symbols = append(symbols, entry.Symbol)
		}
	}
	return symbols, nil
}

func (s *FavoriteStore) DeleteAll(ctx context.Context, username string) (int, error) {
	sql := "DELETE favorite WHERE username = $username RETURN BEFORE"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.FavoriteEntry](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete favorites: %w", err)
	}

	deleted := 0
	if results != nil && len(*results) > 0 {
		deleted = len((*results)[0].Result)
	}
	return deleted, nil
}
