package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// Compile-time interface check
var _ interfaces.UserStore = (*UserStore)(nil)

// UserStore manages user account records.
type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

func (s *UserStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, surrealmodels.NewRecordID("user", username))
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if user == nil || user.Username == "" {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	// CREATE rejects an existing record id; duplicates map to ErrDuplicateUser.
	sql := "CREATE type::record('user', $id) CONTENT $user"
	vars := map[string]any{"id": user.Username, "user": user}

	if _, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars); err != nil {
		if isDuplicateError(err) {
			return models.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("User created")
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, username string) error {
	_, err := surrealdb.Delete[models.User](ctx, s.db, surrealmodels.NewRecordID("user", username))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
