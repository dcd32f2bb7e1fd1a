// Package account manages user registration, authentication, and the
// ordered cascade that removes an account and its data.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
	"github.com/okabet/tickerscope/internal/session"
)

// Compile-time interface check
var _ interfaces.AccountService = (*Service)(nil)

const bcryptCost = 10

// Service implements AccountService against the persistent stores.
type Service struct {
	storage  interfaces.StorageManager
	sessions *session.Registry
	logger   *common.Logger
}

// NewService creates a new account service.
// sessions may be nil when no in-process session state is kept.
func NewService(storage interfaces.StorageManager, sessions *session.Registry, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		sessions: sessions,
		logger:   logger,
	}
}

// hashPassword truncates to 72 bytes first: bcrypt ignores anything beyond
// that, and newer library versions reject longer inputs outright.
func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(b, bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}

// Register creates a new account. Usernames are trimmed; empty usernames or
// passwords are rejected.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.storage.Users().CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("User registered")
	return user, nil
}

// Authenticate verifies the username/password pair. A missing user and a
// wrong password both return ErrInvalidCredentials so the response does not
// reveal which usernames exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.storage.Users().GetUser(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// DeleteAccount removes the user's history, favorites, and account record,
// in that order. There is no cross-store transaction: when a step fails the
// earlier steps stay deleted and the returned CascadeDeleteError reports how
// far the cascade got.
func (s *Service) DeleteAccount(ctx context.Context, username string) error {
	if _, err := s.storage.Users().GetUser(ctx, username); err != nil {
		return err
	}

	var completed []string

	historyRows, err := s.storage.History().DeleteAll(ctx, username)
	if err != nil {
		return &models.CascadeDeleteError{Username: username, FailedAt: "history", Completed: completed, Err: err}
	}
	completed = append(completed, "history")

	favoriteRows, err := s.storage.Favorites().DeleteAll(ctx, username)
	if err != nil {
		return &models.CascadeDeleteError{Username: username, FailedAt: "favorites", Completed: completed, Err: err}
	}
	completed = append(completed, "favorites")

	if err := s.storage.Users().DeleteUser(ctx, username); err != nil {
		return &models.CascadeDeleteError{Username: username, FailedAt: "user", Completed: completed, Err: err}
	}

	if s.sessions != nil {
		s.sessions.Remove(username)
	}

	s.logger.Info().
		Str("username", username).
		Int("history_rows", historyRows).
		Int("favorite_rows", favoriteRows).
		Msg("Account deleted")
	return nil
}
