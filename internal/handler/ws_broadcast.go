package handler

import (
	"context"

	"github.com/coupengine/coup/internal/repository"
)

// MatchBroadcaster adapts a Hub to service.Broadcaster, resolving which
// user currently holds a seat before pushing that seat's masked view so
// no other seat's socket ever receives it. Each seat gets its own
// payload rather than one identical event fanned out to every
// subscriber.
type MatchBroadcaster struct {
	hub       *Hub
	matchRepo repository.MatchRepository
}

// NewMatchBroadcaster creates a MatchBroadcaster.
func NewMatchBroadcaster(hub *Hub, matchRepo repository.MatchRepository) *MatchBroadcaster {
	return &MatchBroadcaster{hub: hub, matchRepo: matchRepo}
}

// BroadcastMatchEventForSeat implements service.Broadcaster.
func (b *MatchBroadcaster) BroadcastMatchEventForSeat(matchID string, seat int, eventType string, data any) {
	match, err := b.matchRepo.FindByID(context.Background(), matchID)
	if err != nil || match == nil {
		return
	}
	for _, p := range match.Players {
		if p.Seat == seat {
			b.hub.BroadcastToMatchUser(matchID, p.UserID, WSEvent{Type: eventType, MatchID: matchID, Data: data})
			return
		}
	}
}
