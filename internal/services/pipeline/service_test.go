package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
	"github.com/okabet/tickerscope/internal/session"
	"github.com/okabet/tickerscope/internal/storage/memory"
)

type fakeResolver struct {
	gotQuery   string
	candidates []models.CandidateSymbol
}

func (f *fakeResolver) Resolve(_ context.Context, query string) []models.CandidateSymbol {
	f.gotQuery = query
	return f.candidates
}

type fakeForecaster struct {
	gotSymbol   string
	gotLookback int
	result      *models.ForecastResult
	err         error
}

func (f *fakeForecaster) Forecast(_ context.Context, symbol string, lookbackYears int) (*models.ForecastResult, error) {
	f.gotSymbol = symbol
	f.gotLookback = lookbackYears
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.ForecastResult{Symbol: symbol, CompanyName: symbol, WindowStart: time.Now()}, nil
}

type fixture struct {
	svc        *Service
	resolver   *fakeResolver
	forecaster *fakeForecaster
	storage    interfaces.StorageManager
	sessions   *session.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		resolver:   &fakeResolver{},
		forecaster: &fakeForecaster{},
		storage:    memory.NewManager(),
		sessions:   session.NewRegistry(),
	}
	f.svc = NewService(f.resolver, f.forecaster, f.storage, f.sessions, common.NewSilentLogger())
	return f
}

func TestRunForecastFromQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.resolver.candidates = []models.CandidateSymbol{
		{Symbol: "7203.T", DisplayName: "Toyota Motor Corporation"},
		{Symbol: "TM", DisplayName: "Toyota Motor Corporation ADR"},
	}

	result, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Query: "toyota", LookbackYears: 2})
	require.NoError(t, err)

	assert.Equal(t, "toyota", f.resolver.gotQuery)
	assert.Equal(t, "7203.T", f.forecaster.gotSymbol)
	assert.Equal(t, 2, f.forecaster.gotLookback)
	assert.Equal(t, "7203.T", result.Symbol)

	st := f.sessions.Get("alice")
	assert.Equal(t, "7203.T", st.Symbol())
	assert.Equal(t, session.Valid, st.Validity())
	assert.Equal(t, "7203.T", st.LastSearched())
}

func TestRunForecastQueryWithNoCandidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Query: "zzzz"})
	assert.ErrorIs(t, err, models.ErrNoCandidates)
	assert.Empty(t, f.forecaster.gotSymbol)
}

func TestRunForecastExplicitSymbolNormalized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: " aapl ", LookbackYears: 1})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", f.forecaster.gotSymbol)
}

func TestRunForecastReusesSessionSymbol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	// Re-run with a different lookback and no symbol.
	_, err = f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{LookbackYears: 5})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", f.forecaster.gotSymbol)
	assert.Equal(t, 5, f.forecaster.gotLookback)
}

func TestRunForecastNoSymbolAnywhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{LookbackYears: 1})
	assert.ErrorIs(t, err, models.ErrEmptySymbol)
}

func TestRunForecastWhitespaceSymbol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "   ", LookbackYears: 1})
	assert.ErrorIs(t, err, models.ErrEmptySymbol)

	// The engine must not run and the session symbol must stay unset.
	assert.Empty(t, f.forecaster.gotSymbol)
	assert.Empty(t, f.sessions.Get("alice").Symbol())
}

func TestRunForecastBlankCandidateSymbol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.resolver.candidates = []models.CandidateSymbol{{Symbol: "  ", DisplayName: "Broken Result"}}

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Query: "broken", LookbackYears: 1})
	assert.ErrorIs(t, err, models.ErrEmptySymbol)
	assert.Empty(t, f.forecaster.gotSymbol)
}

func TestRunForecastDefaultsLookback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, models.LookbackYears[0], f.forecaster.gotLookback)
}

func TestRunForecastRejectsUnsupportedLookback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 4})
	assert.Error(t, err)
	assert.Empty(t, f.forecaster.gotSymbol)
}

func TestRunForecastFailureMarksInvalidAndSkipsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.forecaster.err = models.ErrInsufficientData

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "FAKE", LookbackYears: 1})
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	st := f.sessions.Get("alice")
	assert.Equal(t, "FAKE", st.Symbol())
	assert.Equal(t, session.Invalid, st.Validity())

	symbols, err := f.storage.History().RecentSymbols(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestRunForecastSuccessRecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)
	_, err = f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "MSFT", LookbackYears: 1})
	require.NoError(t, err)
	_, err = f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	symbols, err := f.svc.RecentHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}

func TestAddFavoriteRequiresValidatedSymbol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.AddFavorite(ctx, "alice", "AAPL")
	assert.ErrorIs(t, err, models.ErrSymbolNotValidated)

	_, err = f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	created, err := f.svc.AddFavorite(ctx, "alice", "AAPL")
	require.NoError(t, err)
	assert.True(t, created)

	favorites, err := f.svc.Favorites(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, favorites)
}

func TestAddFavoriteRejectsDifferentSymbol(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	_, err = f.svc.AddFavorite(ctx, "alice", "MSFT")
	assert.ErrorIs(t, err, models.ErrSymbolNotValidated)
}

func TestAddFavoriteRejectedAfterFailedForecast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	f.forecaster.err = models.ErrInsufficientData
	_, err = f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "FAKE", LookbackYears: 1})
	require.Error(t, err)

	_, err = f.svc.AddFavorite(ctx, "alice", "FAKE")
	assert.ErrorIs(t, err, models.ErrSymbolNotValidated)
	_, err = f.svc.AddFavorite(ctx, "alice", "AAPL")
	assert.ErrorIs(t, err, models.ErrSymbolNotValidated)
}

func TestAddFavoriteDuplicateReturnsFalse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)

	created, err := f.svc.AddFavorite(ctx, "alice", "AAPL")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.AddFavorite(ctx, "alice", "AAPL")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRemoveFavoriteNeedsNoValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RunForecast(ctx, "alice", interfaces.ForecastRequest{Symbol: "AAPL", LookbackYears: 1})
	require.NoError(t, err)
	_, err = f.svc.AddFavorite(ctx, "alice", "AAPL")
	require.NoError(t, err)

	// Session moves to a different, unvalidated symbol.
	f.sessions.Get("alice").SetSymbol("MSFT")

	require.NoError(t, f.svc.RemoveFavorite(ctx, "alice", "aapl"))
	favorites, err := f.svc.Favorites(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
