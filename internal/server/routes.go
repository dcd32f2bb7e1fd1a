package server

import (
	"net/http"
	"time"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/models"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Users
	mux.HandleFunc("/api/users/", s.routeUsers)
	mux.HandleFunc("/api/users", s.handleUserCreate)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)

	// Symbols
	mux.HandleFunc("/api/symbols/search", s.handleSymbolSearch)

	// Forecast
	mux.HandleFunc("/api/forecast", s.handleForecast)

	// Per-user data
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/favorites/", s.routeFavorites)
	mux.HandleFunc("/api/favorites", s.handleFavorites)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": s.app.Config.Environment,
		"uptime":      time.Since(s.app.StartupTime).Round(time.Second).String(),
		"lookbacks":   models.LookbackYears,
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
