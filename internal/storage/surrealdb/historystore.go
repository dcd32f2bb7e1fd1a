package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// Compile-time interface check
var _ interfaces.HistoryStore = (*HistoryStore)(nil)

// Raw rows fetched before dedup. Large enough that five distinct symbols
// survive even a run of repeated searches.
const historyFetchLimit = 50

// HistoryStore manages per-user search history records.
type HistoryStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHistoryStore(db *surrealdb.DB, logger *common.Logger) *HistoryStore {
	return &HistoryStore{
		db:     db,
		logger: logger,
	}
}

func (s *HistoryStore) RecordSearch(ctx context.Context, username, symbol string) error {
	entry := models.HistoryEntry{
		Username: username,
		Symbol:   symbol,
		Datetime: time.Now().UTC(),
	}
	sql := "CREATE history CONTENT $entry"
	vars := map[string]any{"entry": entry}

	if _, err := surrealdb.Query[[]models.HistoryEntry](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	s.logger.Debug().
		Str("username", username).
		Str("symbol", symbol).
		Msg("Search recorded")
	return nil
}

func (s *HistoryStore) RecentSymbols(ctx context.Context, username string) ([]string, error) {
	sql := "SELECT * FROM history WHERE username = $username ORDER BY datetime DESC LIMIT $limit"
	vars := map[string]any{"username": username, "limit": historyFetchLimit}

	results, err := surrealdb.Query[[]models.HistoryEntry](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	var symbols []string
	if results != nil && len(*results) > 0 {
		for _, entry := range (*results)[0].Result {
			symbols = append(symbols, entry.Symbol)
		}
	}

	return models.DedupByRecency(symbols, models.HistoryLimit), nil
}

func (s *HistoryStore) DeleteAll(ctx context.Context, username string) (int, error) {
	sql := "DELETE history WHERE username = $username RETURN BEFORE"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.HistoryEntry](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete history: %w", err)
	}

	deleted := 0
	if results != nil && len(*results) > 0 {
		deleted = len((*results)[0].Result)
	}
	return deleted, nil
}
