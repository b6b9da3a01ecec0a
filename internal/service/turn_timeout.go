package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/repository"
)

// TurnTimeoutListener listens for Redis keyspace notifications on expired
// turn-deadline keys and force-submits a default action when a seat
// misses its deadline, so a stalled or crashed external agent can never
// wedge a match open forever. Also runs a polling fallback to catch
// expirations if keyspace notifications are unavailable, the same
// belt-and-braces shape as a Diplomacy deadline timer.
type TurnTimeoutListener struct {
	rdb       *redis.Client
	matchSvc  *MatchService
	matchRepo repository.MatchRepository
	cache     repository.MatchCache
}

// NewTurnTimeoutListener creates a TurnTimeoutListener.
func NewTurnTimeoutListener(rdb *redis.Client, matchSvc *MatchService, matchRepo repository.MatchRepository, cache repository.MatchCache) *TurnTimeoutListener {
	return &TurnTimeoutListener{rdb: rdb, matchSvc: matchSvc, matchRepo: matchRepo, cache: cache}
}

// Start begins listening for expired deadline key events and runs a
// polling fallback.
func (t *TurnTimeoutListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollExpiredMatches(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TurnTimeoutListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Turn timeout listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollExpiredMatches periodically checks active matches past their turn
// deadline and force-submits a default action for whichever seat was
// about to act.
func (t *TurnTimeoutListener) pollExpiredMatches(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("Turn deadline poller started (10s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Turn deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpiredMatches(ctx)
		}
	}
}

// checkExpiredMatches finds active matches whose turn deadline key has
// expired and forces a default action for each.
func (t *TurnTimeoutListener) checkExpiredMatches(ctx context.Context) {
	matches, err := t.matchRepo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active matches")
		return
	}
	for _, m := range matches {
		passed, err := t.cache.TurnDeadlinePassed(ctx, m.ID)
		if err != nil {
			log.Error().Err(err).Str("matchId", m.ID).Msg("Failed to check turn deadline")
			continue
		}
		if !passed {
			continue
		}
		log.Info().Str("matchId", m.ID).Msg("Poller forcing default action on expired turn")
		t.forceDefaultAction(ctx, m.ID)
	}
}

// handleExpiry processes an expired key. Only acts on match deadline keys.
func (t *TurnTimeoutListener) handleExpiry(ctx context.Context, key string) {
	if !strings.HasPrefix(key, "match:") || !strings.HasSuffix(key, ":deadline") {
		return
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	matchID := parts[1]

	log.Info().Str("matchId", matchID).Msg("Turn deadline expired, forcing default action")
	t.forceDefaultAction(ctx, matchID)
}

// forceDefaultAction submits a default legal action on behalf of whichever
// seat Game.PlayerToAct currently names: "pass" or "income" when the phase
// offers either, otherwise the first legal action in sorted order (a
// forced reveal, keep choice, or mandatory coup). A stalled agent thus
// forfeits the chance to bluff or block rather than stalling the match.
func (t *TurnTimeoutListener) forceDefaultAction(ctx context.Context, matchID string) {
	state, err := t.matchSvc.GetMatchState(ctx, matchID)
	if err != nil {
		log.Error().Err(err).Str("matchId", matchID).Msg("Failed to load match state for timeout")
		return
	}
	seat := state.Game.PlayerToAct
	if seat < 0 {
		return
	}

	// Actions come back from pkg/coup in the absolute frame; PlayAction
	// expects the seat's own relative frame, so rotate the same way
	// Game.LegalActions would be rotated for that seat before display.
	legal, err := t.matchSvc.legalActionsFor(ctx, matchID, seat)
	if err != nil || len(legal) == 0 {
		log.Error().Err(err).Str("matchId", matchID).Msg("No legal action available to force")
		return
	}

	action := legal[0]
	for _, a := range legal {
		if a == "pass" || a == "income" {
			action = a
			break
		}
	}

	if _, err := t.matchSvc.PlayAction(ctx, matchID, seat, action); err != nil {
		log.Error().Err(err).Str("matchId", matchID).Int("seat", seat).Str("action", action).
			Msg("Failed to force default action after turn timeout")
	}
}
