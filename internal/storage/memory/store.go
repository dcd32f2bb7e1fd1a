// Package memory holds an in-memory storage backend for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// Compile-time interface checks
var (
	_ interfaces.StorageManager = (*Manager)(nil)
	_ interfaces.UserStore      = (*userStore)(nil)
	_ interfaces.HistoryStore   = (*historyStore)(nil)
	_ interfaces.FavoriteStore  = (*favoriteStore)(nil)
)

type favoriteKey struct {
	username string
	symbol   string
}

// Manager implements StorageManager with mutex-protected maps.
type Manager struct {
	mu        sync.RWMutex
	users     map[string]models.User
	history   []models.HistoryEntry
	favorites map[favoriteKey]models.FavoriteEntry

	userStore     *userStore
	historyStore  *historyStore
	favoriteStore *favoriteStore
}

func NewManager() *Manager {
	m := &Manager{
		users:     make(map[string]models.User),
		favorites: make(map[favoriteKey]models.FavoriteEntry),
	}
	m.userStore = &userStore{m: m}
	m.historyStore = &historyStore{m: m}
	m.favoriteStore = &favoriteStore{m: m}
	return m
}

func (m *Manager) Users() interfaces.UserStore         { return m.userStore }
func (m *Manager) History() interfaces.HistoryStore    { return m.historyStore }
func (m *Manager) Favorites() interfaces.FavoriteStore { return m.favoriteStore }
func (m *Manager) Close() error                        { return nil }

type userStore struct {
	m *Manager
}

func (s *userStore) GetUser(_ context.Context, username string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	user, ok := s.m.users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (s *userStore) CreateUser(_ context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[user.Username]; ok {
		return models.ErrDuplicateUser
	}
	s.m.users[user.Username] = *user
	return nil
}

func (s *userStore) DeleteUser(_ context.Context, username string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	delete(s.m.users, username)
	return nil
}

type historyStore struct {
	m *Manager
}

func (s *historyStore) RecordSearch(_ context.Context, username, symbol string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.history = append(s.m.history, models.HistoryEntry{
		Username: username,
		Symbol:   symbol,
		Datetime: time.Now().UTC(),
	})
	return nil
}

func (s *historyStore) RecentSymbols(_ context.Context, username string) ([]string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	// History is append-only, so reverse iteration yields most-recent first.
	var symbols []string
	for i := len(s.m.history) - 1; i >= 0; i-- {
		if s.m.history[i].Username == username {
			symbols = append(symbols, s.m.history[i].Symbol)
		}
	}
	return models.DedupByRecency(symbols, models.HistoryLimit), nil
}

func (s *historyStore) DeleteAll(_ context.Context, username string) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	kept := s.m.history[:0]
	deleted := 0
	for _, entry := range s.m.history {
		if entry.Username == username {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	s.m.history = kept
	return deleted, nil
}

type favoriteStore struct {
	m *Manager
}

func (s *favoriteStore) Add(_ context.Context, username, symbol string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	key := favoriteKey{username: username, symbol: symbol}
	if _, ok := s.m.favorites[key]; ok {
		return false, nil
	}
	s.m.favorites[key] = models.FavoriteEntry{
		Username: username,
		Symbol:   symbol,
		AddedAt:  time.Now().UTC(),
	}
	return true, nil
}

func (s *favoriteStore) Remove(_ context.Context, username, symbol string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	delete(s.m.favorites, favoriteKey{username: username, symbol: symbol})
	return nil
}

func (s *favoriteStore) List(_ context.Context, username string) ([]string, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	var entries []models.FavoriteEntry
	for key, entry := range s.m.favorites {
		if key.username == username {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].Symbol < entries[j].Symbol
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})

	symbols := make([]string, 0, len(entries))
	for _, entry := range entries {
		symbols = append(symbols, entry.Symbol)
	}
	return symbols, nil
}

func (s *favoriteStore) DeleteAll(_ context.Context, username string) (int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	deleted := 0
	for key := range s.m.favorites {
		if key.username == username {
			delete(s.m.favorites, key)
			deleted++
		}
	}
	return deleted, nil
}
