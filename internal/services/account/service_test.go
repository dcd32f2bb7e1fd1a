package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
	"github.com/okabet/tickerscope/internal/session"
	"github.com/okabet/tickerscope/internal/storage/memory"
)

func newService(t *testing.T) (*Service, interfaces.StorageManager, *session.Registry) {
	t.Helper()
	storage := memory.NewManager()
	sessions := session.NewRegistry()
	return NewService(storage, sessions, common.NewSilentLogger()), storage, sessions
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	user, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Register(ctx, "alice", "one")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "two")
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
}

func TestRegisterRejectsBlankInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Register(ctx, "   ", "pw")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "")
	assert.Error(t, err)
}

func TestRegisterLongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	long := strings.Repeat("x", 100)
	_, err := svc.Register(ctx, "alice", long)
	require.NoError(t, err)

	// bcrypt only considers the first 72 bytes.
	_, err = svc.Authenticate(ctx, "alice", long)
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "alice", long[:72])
	assert.NoError(t, err)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Register(ctx, "alice", "right")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Authenticate(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	svc, storage, sessions := newService(t)

	_, err := svc.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	require.NoError(t, storage.History().RecordSearch(ctx, "alice", "AAPL"))
	_, err = storage.Favorites().Add(ctx, "alice", "AAPL")
	require.NoError(t, err)
	sessions.Get("alice").SetSymbol("AAPL")

	require.NoError(t, svc.DeleteAccount(ctx, "alice"))

	_, err = storage.Users().GetUser(ctx, "alice")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	symbols, err := storage.History().RecentSymbols(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, symbols)
	favorites, err := storage.Favorites().List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	// Session state must not leak into a future account with the same name.
	assert.Empty(t, sessions.Get("alice").Symbol())
}

func TestDeleteAccountUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	err := svc.DeleteAccount(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

type failingFavorites struct {
	interfaces.FavoriteStore
}

func (f *failingFavorites) DeleteAll(_ context.Context, _ string) (int, error) {
	return 0, errors.New("store offline")
}

type failingManager struct {
	interfaces.StorageManager
}

func (f *failingManager) Favorites() interfaces.FavoriteStore {
	return &failingFavorites{FavoriteStore: f.StorageManager.Favorites()}
}

func TestDeleteAccountPartialFailure(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewManager()
	svc := NewService(&failingManager{StorageManager: inner}, nil, common.NewSilentLogger())

	require.NoError(t, inner.Users().CreateUser(ctx, &models.User{Username: "alice"}))
	require.NoError(t, inner.History().RecordSearch(ctx, "alice", "AAPL"))

	err := svc.DeleteAccount(ctx, "alice")

	var cascadeErr *models.CascadeDeleteError
	require.ErrorAs(t, err, &cascadeErr)
	assert.Equal(t, "favorites", cascadeErr.FailedAt)
	assert.Equal(t, []string{"history"}, cascadeErr.Completed)

	// History deletion completed before the failure and is not rolled back.
	symbols, err := inner.History().RecentSymbols(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, symbols)

	// The user record survives.
	_, err = inner.Users().GetUser(ctx, "alice")
	assert.NoError(t, err)
}

func TestHashPasswordVerifiableWithBcrypt(t *testing.T) {
	hash, err := hashPassword("hello")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hello")))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}
