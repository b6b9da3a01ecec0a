package handler

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/auth"
	"github.com/coupengine/coup/internal/repository"
)

// AuthHandler handles agent registration and token refresh. Agents here
// are bot/RL processes authenticated with JWT tokens, not human accounts
// behind a third-party identity provider, so there is no OAuth exchange.
type AuthHandler struct {
	jwtMgr   *auth.JWTManager
	userRepo repository.UserRepository
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(jwtMgr *auth.JWTManager, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr, userRepo: userRepo}
}

// Register upserts an agent account identified by name and issues a
// fresh token pair. Calling it again with the same name returns tokens
// for the same account rather than creating a duplicate.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}

	providerID := fmt.Sprintf("agent-%s", req.Name)
	user, err := h.userRepo.Upsert(r.Context(), "agent", providerID, req.Name, "")
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to upsert agent user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := h.jwtMgr.ValidateToken(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}
