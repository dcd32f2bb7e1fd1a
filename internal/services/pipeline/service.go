// Package pipeline sequences symbol resolution, validation, and forecasting,
// and keeps the per-user session state consistent with the outcome.
package pipeline

import (
	"context"
	"fmt"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
	"github.com/okabet/tickerscope/internal/session"
)

// Compile-time interface check
var _ interfaces.PipelineService = (*Service)(nil)

// Service implements PipelineService.
type Service struct {
	resolver   interfaces.ResolverService
	forecaster interfaces.ForecastService
	storage    interfaces.StorageManager
	sessions   *session.Registry
	logger     *common.Logger
}

// NewService creates a new pipeline service.
func NewService(
	resolver interfaces.ResolverService,
	forecaster interfaces.ForecastService,
	storage interfaces.StorageManager,
	sessions *session.Registry,
	logger *common.Logger,
) *Service {
	return &Service{
		resolver:   resolver,
		forecaster: forecaster,
		storage:    storage,
		sessions:   sessions,
		logger:     logger,
	}
}

// RunForecast executes one user-initiated forecast. The symbol comes from,
// in order of precedence: the resolved query, the explicit symbol, or the
// symbol already on the session. The session symbol is updated before the
// forecast runs, so a failed run leaves the symbol displayed but Invalid.
// History records only successful runs.
func (s *Service) RunForecast(ctx context.Context, username string, req interfaces.ForecastRequest) (*models.ForecastResult, error) {
	symbol, err := s.resolveSymbol(ctx, username, req)
	if err != nil {
		return nil, err
	}

	lookback := req.LookbackYears
	if lookback == 0 {
		lookback = models.LookbackYears[0]
	}
	if !models.ValidLookback(lookback) {
		return nil, fmt.Errorf("unsupported lookback %d: choose one of %v", lookback, models.LookbackYears)
	}

	s.sessions.WithState(username, func(st *session.State) {
		st.SetSymbol(symbol)
	})

	result, err := s.forecaster.Forecast(ctx, symbol, lookback)
	if err != nil {
		s.sessions.WithState(username, func(st *session.State) {
			st.MarkValidationResult(false)
		})
		return nil, err
	}

	s.sessions.WithState(username, func(st *session.State) {
		st.MarkValidationResult(true)
	})

	// History append is best-effort: a store hiccup must not fail a forecast
	// the user already has.
	if err := s.storage.History().RecordSearch(ctx, username, symbol); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Str("symbol", symbol).Msg("Failed to record search history")
	}

	return result, nil
}

func (s *Service) resolveSymbol(ctx context.Context, username string, req interfaces.ForecastRequest) (string, error) {
	switch {
	case req.Query != "":
		candidates := s.resolver.Resolve(ctx, req.Query)
		if len(candidates) == 0 {
			return "", models.ErrNoCandidates
		}
		symbol := models.NormalizeSymbol(candidates[0].Symbol)
		if symbol == "" {
			return "", models.ErrEmptySymbol
		}
		return symbol, nil

	case req.Symbol != "":
		symbol := models.NormalizeSymbol(req.Symbol)
		if symbol == "" {
			return "", models.ErrEmptySymbol
		}
		return symbol, nil

	default:
		var symbol string
		s.sessions.WithState(username, func(st *session.State) {
			symbol = st.Symbol()
		})
		if symbol == "" {
			return "", models.ErrEmptySymbol
		}
		return symbol, nil
	}
}

// AddFavorite stores a favorite for the session's validated symbol. The add
// is rejected unless the requested symbol is the one currently displayed and
// its last forecast succeeded.
func (s *Service) AddFavorite(ctx context.Context, username, symbol string) (bool, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return false, models.ErrEmptySymbol
	}

	allowed := false
	s.sessions.WithState(username, func(st *session.State) {
		allowed = st.CanAddFavorite() && st.Symbol() == symbol
	})
	if !allowed {
		return false, models.ErrSymbolNotValidated
	}

	return s.storage.Favorites().Add(ctx, username, symbol)
}

// RemoveFavorite removes a favorite. Removal needs no validation gate and is
// idempotent.
func (s *Service) RemoveFavorite(ctx context.Context, username, symbol string) error {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return models.ErrEmptySymbol
	}
	return s.storage.Favorites().Remove(ctx, username, symbol)
}

// Favorites lists the user's favorite symbols.
func (s *Service) Favorites(ctx context.Context, username string) ([]string, error) {
	return s.storage.Favorites().List(ctx, username)
}

// RecentHistory returns the recency-deduplicated recent symbol view.
func (s *Service) RecentHistory(ctx context.Context, username string) ([]string, error) {
	return s.storage.History().RecentSymbols(ctx, username)
}
