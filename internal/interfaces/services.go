package interfaces

import (
	"context"

	"github.com/okabet/tickerscope/internal/models"
)

// ResolverService turns a free-text query into candidate symbols.
type ResolverService interface {
	// Resolve never fails: search or translation trouble yields an empty
	// sequence, which is a normal user-visible outcome.
	Resolve(ctx context.Context, query string) []models.CandidateSymbol
}

// ForecastService fetches history for a symbol and produces a bounded
// trend forecast.
type ForecastService interface {
	// Forecast returns models.ErrInsufficientData, *models.FetchError or
	// *models.FitError on failure.
	Forecast(ctx context.Context, symbol string, lookbackYears int) (*models.ForecastResult, error)
}

// AccountService manages user registration, authentication, and deletion.
type AccountService interface {
	// Register returns models.ErrDuplicateUser on a username collision.
	Register(ctx context.Context, username, password string) (*models.User, error)

	// Authenticate returns models.ErrInvalidCredentials on a mismatch.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// DeleteAccount cascades history, favorites, then the user record, in
	// that order. On failure it returns *models.CascadeDeleteError; steps
	// already completed are not rolled back.
	DeleteAccount(ctx context.Context, username string) error
}

// ForecastRequest carries one user-initiated forecast run.
type ForecastRequest struct {
	// Query, when non-empty, is resolved to a symbol before forecasting.
	Query string `json:"query,omitempty"`
	// Symbol, when non-empty, is used directly (normalized first).
	Symbol        string `json:"symbol,omitempty"`
	LookbackYears int    `json:"lookback_years"`
}

// PipelineService sequences resolution, validation, forecasting, and the
// per-user session state that gates favorites.
type PipelineService interface {
	RunForecast(ctx context.Context, username string, req ForecastRequest) (*models.ForecastResult, error)

	// AddFavorite is accepted only while the session symbol is validated.
	// The bool mirrors FavoriteStore.Add: false means the store rejected
	// the write (e.g. duplicate) and no error is surfaced.
	AddFavorite(ctx context.Context, username, symbol string) (bool, error)
	RemoveFavorite(ctx context.Context, username, symbol string) error
	Favorites(ctx context.Context, username string) ([]string, error)

	RecentHistory(ctx context.Context, username string) ([]string, error)
}
