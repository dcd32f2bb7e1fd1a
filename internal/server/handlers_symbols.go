package server

import (
	"net/http"

	"github.com/okabet/tickerscope/internal/models"
)

type searchResponse struct {
	Query      string                   `json:"query"`
	Candidates []models.CandidateSymbol `json:"candidates"`
}

// handleSymbolSearch handles GET /api/symbols/search?q={query}.
// An empty candidate list is a normal 200 response, not an error.
func (s *Server) handleSymbolSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	candidates := s.app.ResolverService.Resolve(r.Context(), query)
	if candidates == nil {
		candidates = []models.CandidateSymbol{}
	}

	WriteJSON(w, http.StatusOK, searchResponse{Query: query, Candidates: candidates})
}
