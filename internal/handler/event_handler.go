package handler

import (
	"net/http"

	"github.com/coupengine/coup/internal/repository"
)

// EventHandler handles read access to a match's recorded event trail, a
// flat one-action-per-event log of everything pkg/coup has replayed.
type EventHandler struct {
	eventRepo repository.EventRepository
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventRepo repository.EventRepository) *EventHandler {
	return &EventHandler{eventRepo: eventRepo}
}

// ListEvents handles GET /api/v1/matches/{id}/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	events, err := h.eventRepo.ListEvents(r.Context(), matchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// LatestEvent handles GET /api/v1/matches/{id}/events/latest
func (h *EventHandler) LatestEvent(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	event, err := h.eventRepo.LatestEvent(r.Context(), matchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "no events recorded for this match")
		return
	}
	writeJSON(w, http.StatusOK, event)
}
