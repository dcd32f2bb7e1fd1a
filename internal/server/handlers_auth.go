package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/models"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"iss": "tickerscope-server",
		"iat": now.Unix(),
		"exp": now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.app.AccountService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.logger.Error().Err(err).Msg("Authentication failed")
		WriteError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{Token: token, Username: user.Username})
}

// requireUser extracts the authenticated username or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uc := common.UserContextFrom(r.Context())
	if uc == nil || uc.Username == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return uc.Username, true
}
