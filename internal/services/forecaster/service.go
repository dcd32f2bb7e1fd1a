// Package forecaster produces bounded trend forecasts from daily close history
package forecaster

import (
	"context"
	"time"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
	"github.com/okabet/tickerscope/internal/timeseries"
)

// Compile-time interface check
var _ interfaces.ForecastService = (*Service)(nil)

// Service implements ForecastService on top of a market-data client and the
// additive trend model.
type Service struct {
	market interfaces.MarketDataClient
	logger *common.Logger
	opts   timeseries.Options
}

// NewService creates a new forecast service.
func NewService(market interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		market: market,
		logger: logger,
		opts:   timeseries.DefaultOptions(),
	}
}

// Forecast fetches daily closes for the symbol, fits the trend model, and
// evaluates it over both the historical range and a weekend-filtered future
// horizon. The company profile lookup is best-effort; on failure the symbol
// itself is used as the display name.
func (s *Service) Forecast(ctx context.Context, symbol string, lookbackYears int) (*models.ForecastResult, error) {
	series, err := s.market.GetDailyCloses(ctx, symbol, lookbackYears)
	if err != nil {
		return nil, &models.FetchError{Symbol: symbol, Err: err}
	}
	if len(series) < models.MinSeriesLength {
		s.logger.Warn().
			Str("symbol", symbol).
			Int("points", len(series)).
			Msg("Series too short to forecast")
		return nil, models.ErrInsufficientData
	}

	model, err := timeseries.Fit(series, s.opts)
	if err != nil {
		return nil, &models.FitError{Symbol: symbol, Err: err}
	}

	lastDate := series[len(series)-1].Date
	dates := make([]time.Time, 0, len(series)+models.ForecastHorizonDays)
	for _, p := range series {
		dates = append(dates, p.Date)
	}
	dates = append(dates, timeseries.BusinessDayHorizon(lastDate, models.ForecastHorizonDays)...)

	forecast := model.Predict(dates)

	result := &models.ForecastResult{
		Symbol:      symbol,
		CompanyName: symbol,
		Series:      series,
		Forecast:    forecast,
		WindowStart: windowStart(series),
		Table:       tailRows(forecast, models.ForecastTableRows),
	}

	if profile, err := s.market.GetProfile(ctx, symbol); err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Profile lookup failed, using symbol as name")
	} else {
		result.CompanyName = profile.DisplayName()
	}

	s.logger.Info().
		Str("symbol", symbol).
		Int("lookback_years", lookbackYears).
		Int("series_points", len(series)).
		Int("future_points", len(forecast)-len(series)).
		Msg("Forecast complete")

	return result, nil
}

func windowStart(series []models.PricePoint) time.Time {
	if len(series) > models.HistoryWindowPoints {
		return series[len(series)-models.HistoryWindowPoints].Date
	}
	return series[0].Date
}

func tailRows(points []models.ForecastPoint, n int) []models.ForecastPoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
