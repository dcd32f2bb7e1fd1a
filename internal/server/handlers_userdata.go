package server

import (
	"errors"
	"net/http"

	"github.com/okabet/tickerscope/internal/models"
)

type symbolListResponse struct {
	Symbols []string `json:"symbols"`
}

// handleHistory handles GET /api/history: the recency-deduplicated recent
// symbol view, most recent first, capped at five entries.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	username, ok := requireUser(w, r)
	if !ok {
		return
	}

	symbols, err := s.app.PipelineService.RecentHistory(r.Context(), username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load history")
		WriteError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	WriteJSON(w, http.StatusOK, symbolListResponse{Symbols: symbols})
}

type addFavoriteRequest struct {
	Symbol string `json:"symbol"`
}

type addFavoriteResponse struct {
	Symbol  string `json:"symbol"`
	Created bool   `json:"created"`
}

// handleFavorites handles GET and POST /api/favorites.
func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	username, ok := requireUser(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		symbols, err := s.app.PipelineService.Favorites(r.Context(), username)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to load favorites")
			WriteError(w, http.StatusInternalServerError, "failed to load favorites")
			return
		}
		if symbols == nil {
			symbols = []string{}
		}
		WriteJSON(w, http.StatusOK, symbolListResponse{Symbols: symbols})
		return
	}

	var req addFavoriteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	created, err := s.app.PipelineService.AddFavorite(r.Context(), username, req.Symbol)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptySymbol):
			WriteError(w, http.StatusBadRequest, "symbol is required")
		case errors.Is(err, models.ErrSymbolNotValidated):
			WriteError(w, http.StatusConflict, "symbol must have a successful forecast before it can be favorited")
		default:
			s.logger.Error().Err(err).Msg("Failed to add favorite")
			WriteError(w, http.StatusInternalServerError, "failed to add favorite")
		}
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	WriteJSON(w, status, addFavoriteResponse{Symbol: models.NormalizeSymbol(req.Symbol), Created: created})
}

// routeFavorites handles DELETE /api/favorites/{symbol}.
func (s *Server) routeFavorites(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	username, ok := requireUser(w, r)
	if !ok {
		return
	}

	symbol := PathParam(r, "/api/favorites/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	if err := s.app.PipelineService.RemoveFavorite(r.Context(), username, symbol); err != nil {
		if errors.Is(err, models.ErrEmptySymbol) {
			WriteError(w, http.StatusBadRequest, "symbol is required")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to remove favorite")
		WriteError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
