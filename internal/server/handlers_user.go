package server

import (
	"errors"
	"net/http"

	"github.com/okabet/tickerscope/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// handleUserCreate handles POST /api/users (registration).
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.AccountService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			WriteError(w, http.StatusConflict, "username already exists")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, userResponse{
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// routeUsers handles /api/users/{username} (DELETE only).
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	username, ok := requireUser(w, r)
	if !ok {
		return
	}

	target := PathParam(r, "/api/users/", "")
	if target == "" {
		WriteError(w, http.StatusBadRequest, "username is required")
		return
	}
	// Accounts are self-service: a user may only delete themselves.
	if target != username {
		WriteError(w, http.StatusForbidden, "cannot delete another user's account")
		return
	}

	if err := s.app.AccountService.DeleteAccount(r.Context(), target); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		var cascadeErr *models.CascadeDeleteError
		if errors.As(err, &cascadeErr) {
			s.logger.Error().
				Err(cascadeErr.Err).
				Str("username", cascadeErr.Username).
				Str("failed_at", cascadeErr.FailedAt).
				Strs("completed", cascadeErr.Completed).
				Msg("Account deletion partially completed")
			WriteError(w, http.StatusInternalServerError, "account deletion incomplete: "+cascadeErr.FailedAt+" step failed")
			return
		}
		WriteError(w, http.StatusInternalServerError, "account deletion failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
