package server

import (
	"errors"
	"net/http"

	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/models"
)

// handleForecast handles POST /api/forecast.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	username, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req interfaces.ForecastRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.PipelineService.RunForecast(r.Context(), username, req)
	if err != nil {
		s.writeForecastError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// writeForecastError maps pipeline failures to HTTP statuses. Fetch and
// fit failures and short series are user-visible outcomes of a bad symbol,
// not server faults.
func (s *Server) writeForecastError(w http.ResponseWriter, err error) {
	var fetchErr *models.FetchError
	var fitErr *models.FitError

	switch {
	case errors.Is(err, models.ErrNoCandidates):
		WriteError(w, http.StatusNotFound, "no matching tickers found")
	case errors.Is(err, models.ErrEmptySymbol):
		WriteError(w, http.StatusBadRequest, "no symbol to forecast: provide a query or symbol")
	case errors.Is(err, models.ErrInsufficientData):
		WriteError(w, http.StatusUnprocessableEntity, "not enough historical data for this symbol")
	case errors.As(err, &fetchErr):
		WriteError(w, http.StatusBadGateway, "could not fetch data for "+fetchErr.Symbol)
	case errors.As(err, &fitErr):
		WriteError(w, http.StatusUnprocessableEntity, "could not fit a model for "+fitErr.Symbol)
	default:
		s.logger.Error().Err(err).Msg("Forecast failed")
		WriteError(w, http.StatusBadRequest, err.Error())
	}
}
