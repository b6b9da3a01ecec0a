package handler

import (
	"errors"
	"net/http"

	"github.com/coupengine/coup/internal/auth"
	"github.com/coupengine/coup/internal/repository"
	"github.com/coupengine/coup/internal/service"
)

// MatchHandler handles match lifecycle endpoints.
type MatchHandler struct {
	matchSvc  *service.MatchService
	matchRepo repository.MatchRepository
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matchSvc *service.MatchService, matchRepo repository.MatchRepository) *MatchHandler {
	return &MatchHandler{matchSvc: matchSvc, matchRepo: matchRepo}
}

// CreateMatch handles POST /api/v1/matches
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		Name     string `json:"name"`
		NumSeats int    `json:"num_seats"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	match, err := h.matchSvc.CreateMatch(r.Context(), req.Name, userID, req.NumSeats)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

// ListMatches handles GET /api/v1/matches
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if r.URL.Query().Get("mine") == "true" {
		result, err := h.matchSvc.ListMatchesByUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.matchSvc.ListMatches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetMatch handles GET /api/v1/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	match, err := h.matchSvc.GetMatch(r.Context(), matchID)
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// JoinMatch handles POST /api/v1/matches/{id}/join
func (h *MatchHandler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	match, err := h.matchSvc.JoinMatch(r.Context(), matchID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrMatchFull), errors.Is(err, service.ErrMatchNotWaiting), errors.Is(err, service.ErrAlreadyJoined):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// JoinMatchAsBot handles POST /api/v1/matches/{id}/join-bot
func (h *MatchHandler) JoinMatchAsBot(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	match, err := h.matchSvc.JoinMatchAsBot(r.Context(), matchID, req.Difficulty)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrMatchFull), errors.Is(err, service.ErrMatchNotWaiting):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// StartMatch handles POST /api/v1/matches/{id}/start
func (h *MatchHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	match, err := h.matchSvc.StartMatch(r.Context(), matchID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNotCreator), errors.Is(err, service.ErrNotEnoughSeats), errors.Is(err, service.ErrMatchNotWaiting):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// DeleteMatch handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.matchSvc.DeleteMatch(r.Context(), matchID, userID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNotCreator):
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetMyView handles GET /api/v1/matches/{id}/view. It returns the
// requesting user's own rotated, masked AgentState, the same per-seat
// payload a websocket subscriber receives, for agents that poll over
// plain HTTP instead of holding a connection open.
func (h *MatchHandler) GetMyView(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	match, err := h.matchRepo.FindByID(r.Context(), matchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if match == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}

	seat := -1
	for _, p := range match.Players {
		if p.UserID == userID {
			seat = p.Seat
			break
		}
	}
	if seat == -1 {
		writeError(w, http.StatusForbidden, "you are not seated in this match")
		return
	}

	agentState, err := h.matchSvc.GetSeatView(r.Context(), matchID, seat)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, agentState)
}
