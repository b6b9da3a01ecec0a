package handler

import (
	"errors"
	"net/http"

	"github.com/coupengine/coup/internal/auth"
	"github.com/coupengine/coup/internal/repository"
	"github.com/coupengine/coup/internal/service"
	"github.com/coupengine/coup/pkg/coup"
)

// ActionHandler handles turn submission. Coup has exactly one actor per
// turn, so a single endpoint both submits and resolves an action.
type ActionHandler struct {
	matchSvc  *service.MatchService
	matchRepo repository.MatchRepository
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(matchSvc *service.MatchService, matchRepo repository.MatchRepository) *ActionHandler {
	return &ActionHandler{matchSvc: matchSvc, matchRepo: matchRepo}
}

// SubmitAction handles POST /api/v1/matches/{id}/actions
func (h *ActionHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

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

	state, err := h.matchSvc.PlayAction(r.Context(), matchID, seat, req.Action)
	if err != nil {
		status := http.StatusInternalServerError
		var illegal *coup.IllegalAction
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrMatchNotActive), errors.Is(err, service.ErrNotYourTurn):
			status = http.StatusBadRequest
		case errors.As(err, &illegal):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, state)
}
