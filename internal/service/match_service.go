package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/coupengine/coup/internal/model"
	"github.com/coupengine/coup/internal/repository"
	"github.com/coupengine/coup/internal/view"
	"github.com/coupengine/coup/pkg/coup"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchNotWaiting = errors.New("match is not in waiting status")
	ErrMatchFull       = errors.New("match already has every seat filled")
	ErrNotEnoughSeats  = errors.New("match needs every seat filled before it can start")
	ErrNotCreator      = errors.New("only the creator can start the match")
	ErrMatchNotActive  = errors.New("match is not active")
	ErrAlreadyJoined   = errors.New("already joined this match")
	ErrNotInMatch      = errors.New("you are not seated in this match")
	ErrNotYourTurn     = errors.New("it is not your turn to act")

	// turnDuration is how long a seat has to submit an action before a
	// TurnTimeoutListener force-submits a default one on its behalf.
	turnDuration = 30 * time.Second
)

// rngSource wraps math/rand.Rand to satisfy coup.RNG.
type rngSource struct {
	r *rand.Rand
}

func (s rngSource) Intn(n int) int { return s.r.Intn(n) }

// MatchService handles match lifecycle and turn-by-turn play. Unlike a
// Diplomacy phase, where every power submits an order before anything
// resolves, a Coup turn has exactly one actor at a time, so there is no
// separate ready-set or phase-resolution step: PlayAction both applies the
// action and advances the match atomically.
type MatchService struct {
	matchRepo   repository.MatchRepository
	eventRepo   repository.EventRepository
	cache       repository.MatchCache
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

// NewMatchService creates a MatchService.
func NewMatchService(matchRepo repository.MatchRepository, eventRepo repository.EventRepository, cache repository.MatchCache, userRepo repository.UserRepository, broadcaster Broadcaster) *MatchService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &MatchService{matchRepo: matchRepo, eventRepo: eventRepo, cache: cache, userRepo: userRepo, broadcaster: broadcaster}
}

// CreateMatch creates a new match in "waiting" status for numSeats
// players, auto-joining the creator as the first seat.
func (s *MatchService) CreateMatch(ctx context.Context, name, creatorID string, numSeats int) (*model.Match, error) {
	if numSeats < 2 || numSeats > 6 {
		return nil, fmt.Errorf("numSeats must be between 2 and 6, got %d", numSeats)
	}

	rngSeed := rand.Int63()
	match, err := s.matchRepo.Create(ctx, name, creatorID, numSeats, rngSeed)
	if err != nil {
		return nil, err
	}
	if err := s.matchRepo.JoinMatch(ctx, match.ID, creatorID, 0); err != nil {
		return nil, err
	}
	return s.matchRepo.FindByID(ctx, match.ID)
}

// JoinMatch seats userID at the next free seat in a waiting match.
func (s *MatchService) JoinMatch(ctx context.Context, matchID, userID string) (*model.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status != "waiting" {
		return nil, ErrMatchNotWaiting
	}
	for _, p := range match.Players {
		if p.UserID == userID {
			return nil, ErrAlreadyJoined
		}
	}

	count, err := s.matchRepo.PlayerCount(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if count >= match.NumSeats {
		return nil, ErrMatchFull
	}

	if err := s.matchRepo.JoinMatch(ctx, matchID, userID, count); err != nil {
		return nil, err
	}
	return s.matchRepo.FindByID(ctx, matchID)
}

// JoinMatchAsBot fills the next free seat with a freshly upserted bot
// account of the given difficulty (random, heuristic, or an external
// pkg/cuci policy name), rounding out a lobby with AI-controlled seats.
func (s *MatchService) JoinMatchAsBot(ctx context.Context, matchID, difficulty string) (*model.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status != "waiting" {
		return nil, ErrMatchNotWaiting
	}

	count, err := s.matchRepo.PlayerCount(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if count >= match.NumSeats {
		return nil, ErrMatchFull
	}

	providerID := fmt.Sprintf("%s-seat-%d", matchID, count)
	botUser, err := s.userRepo.Upsert(ctx, "bot", providerID, fmt.Sprintf("Bot %d", count), "")
	if err != nil {
		return nil, fmt.Errorf("create bot user: %w", err)
	}

	if err := s.matchRepo.JoinMatchAsBot(ctx, matchID, botUser.ID, difficulty, count); err != nil {
		return nil, err
	}
	return s.matchRepo.FindByID(ctx, matchID)
}

// StartMatch deals a fresh coup.Game seeded from the match's stored
// rng_seed, persists its initial state, and marks the match active. Only
// the creator may start it, and only once every seat is filled.
func (s *MatchService) StartMatch(ctx context.Context, matchID, userID string) (*model.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status != "waiting" {
		return nil, ErrMatchNotWaiting
	}
	if match.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(match.Players) != match.NumSeats {
		return nil, ErrNotEnoughSeats
	}

	game := coup.NewGame(match.NumSeats, rngSource{r: rand.New(rand.NewSource(match.RNGSeed))})
	state := game.State()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if err := s.cache.SetMatchState(ctx, matchID, stateJSON); err != nil {
		return nil, fmt.Errorf("cache initial state: %w", err)
	}
	if err := s.cache.SetTurnDeadline(ctx, matchID, time.Now().Add(turnDuration)); err != nil {
		return nil, fmt.Errorf("set initial turn deadline: %w", err)
	}

	if _, err := s.eventRepo.CreateEvent(ctx, matchID, 0, -1, "", state.Game.Phase, stateJSON); err != nil {
		return nil, fmt.Errorf("record initial event: %w", err)
	}

	if err := s.matchRepo.SetStarted(ctx, matchID); err != nil {
		return nil, err
	}

	s.broadcastPerSeat(matchID, state)

	return s.matchRepo.FindByID(ctx, matchID)
}

// PlayAction replays the stored match state, applies action on behalf of
// actorSeat, and persists the result. actorSeat must be the seat
// Game.PlayerToAct currently names; action is expected in that seat's own
// relative frame, as returned by Game.LegalActions through
// view.RotateAction, and is un-rotated to the absolute frame pkg/coup
// expects before being played.
func (s *MatchService) PlayAction(ctx context.Context, matchID string, actorSeat int, action string) (*coup.State, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if match.Status != "active" {
		return nil, ErrMatchNotActive
	}

	game, prevEvent, err := s.loadGame(ctx, match)
	if err != nil {
		return nil, err
	}

	toAct, ok := game.PlayerToAct()
	if !ok {
		return nil, ErrMatchNotActive
	}
	if toAct != actorSeat {
		return nil, ErrNotYourTurn
	}

	absoluteAction := view.UnrotateAction(action, actorSeat, match.NumSeats)
	if err := game.Play(absoluteAction); err != nil {
		return nil, err
	}

	state := game.State()
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state after play: %w", err)
	}

	sequence := 1
	if prevEvent != nil {
		sequence = prevEvent.Sequence + 1
	}
	if _, err := s.eventRepo.CreateEvent(ctx, matchID, sequence, actorSeat, absoluteAction, state.Game.Phase, stateJSON); err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}

	if state.Game.Phase == coup.PhaseGameOver {
		if err := s.cache.SetMatchState(ctx, matchID, stateJSON); err != nil {
			return nil, fmt.Errorf("cache final state: %w", err)
		}
		if err := s.cache.ClearTurnDeadline(ctx, matchID); err != nil {
			return nil, fmt.Errorf("clear turn deadline: %w", err)
		}
		winner := 0
		if state.Game.WinningPlayer != nil {
			winner = *state.Game.WinningPlayer
		}
		if err := s.matchRepo.SetFinished(ctx, matchID, winner); err != nil {
			return nil, err
		}
	} else {
		if err := s.cache.SetMatchState(ctx, matchID, stateJSON); err != nil {
			return nil, fmt.Errorf("cache state: %w", err)
		}
		if err := s.cache.SetTurnDeadline(ctx, matchID, time.Now().Add(turnDuration)); err != nil {
			return nil, fmt.Errorf("set turn deadline: %w", err)
		}
	}

	s.broadcastPerSeat(matchID, state)

	return &state, nil
}

// legalActionsFor replays a match and returns seat's legal actions
// rotated into seat's own relative frame, the same shape Game.LegalActions
// is presented to an external agent in.
func (s *MatchService) legalActionsFor(ctx context.Context, matchID string, seat int) ([]string, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	game, _, err := s.loadGame(ctx, match)
	if err != nil {
		return nil, err
	}

	absolute := game.LegalActions()
	rotated := make([]string, len(absolute))
	for i, a := range absolute {
		rotated[i] = view.RotateAction(a, seat, match.NumSeats)
	}
	return rotated, nil
}

// GetMatch returns a match by ID.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// GetMatchState returns the live coup.State for a match, replaying from
// the latest persisted event if it has fallen out of the cache.
func (s *MatchService) GetMatchState(ctx context.Context, matchID string) (*coup.State, error) {
	cached, err := s.cache.GetMatchState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		ev, err := s.eventRepo.LatestEvent(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return nil, ErrMatchNotFound
		}
		cached = ev.StateAfter
	}
	var state coup.State
	if err := json.Unmarshal(cached, &state); err != nil {
		return nil, fmt.Errorf("unmarshal match state: %w", err)
	}
	return &state, nil
}

// SeatView is the rotated, masked state plus the rotated legal-action
// list for the seat that requested it, everything an agent polling over
// plain HTTP needs to decide and submit its next move.
type SeatView struct {
	view.AgentState
	LegalActions []string `json:"legal_actions"`
}

// GetSeatView returns the rotated, masked view seat is entitled to see
// for matchID, the same per-seat shape broadcastPerSeat pushes over the
// websocket, plus that seat's legal actions when it is the one to act.
// Exposed for callers that poll over plain HTTP instead of keeping a
// live connection open.
func (s *MatchService) GetSeatView(ctx context.Context, matchID string, seat int) (*SeatView, error) {
	state, err := s.GetMatchState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	agentState := view.RotateAndMaskFor(*state, seat)

	var legal []string
	if state.Game.Phase != coup.PhaseGameOver && state.Game.PlayerToAct == seat {
		legal, err = s.legalActionsFor(ctx, matchID, seat)
		if err != nil {
			return nil, err
		}
	}
	return &SeatView{AgentState: agentState, LegalActions: legal}, nil
}

// ListMatches returns open (waiting) matches.
func (s *MatchService) ListMatches(ctx context.Context) ([]model.Match, error) {
	return s.matchRepo.ListOpen(ctx)
}

// ListMatchesByUser returns every match a user created or is seated in.
func (s *MatchService) ListMatchesByUser(ctx context.Context, userID string) ([]model.Match, error) {
	return s.matchRepo.ListByUser(ctx, userID)
}

// DeleteMatch removes a match and all of its events.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID, userID string) error {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return ErrMatchNotFound
	}
	if match.CreatorID != userID {
		return ErrNotCreator
	}
	if err := s.cache.DeleteMatchState(ctx, matchID); err != nil {
		return fmt.Errorf("clear cached state: %w", err)
	}
	if err := s.cache.ClearTurnDeadline(ctx, matchID); err != nil {
		return fmt.Errorf("clear turn deadline: %w", err)
	}
	return s.matchRepo.Delete(ctx, matchID)
}

// loadGame replays every persisted event for a match to reconstruct a live
// coup.Game, since pkg/coup keeps no persistence concerns of its own. The
// deck's shuffle is reseeded identically to StartMatch and every
// already-played action is replayed in order, so the reconstructed Game's
// state is bit-identical to the one that produced the cached snapshot.
func (s *MatchService) loadGame(ctx context.Context, match *model.Match) (*coup.Game, *model.MatchEvent, error) {
	events, err := s.eventRepo.ListEvents(ctx, match.ID)
	if err != nil {
		return nil, nil, err
	}

	game := coup.NewGame(match.NumSeats, rngSource{r: rand.New(rand.NewSource(match.RNGSeed))})

	var last *model.MatchEvent
	for i := range events {
		ev := &events[i]
		if ev.Action != "" {
			if err := game.Play(ev.Action); err != nil {
				return nil, nil, fmt.Errorf("replay event %d: %w", ev.Sequence, err)
			}
		}
		last = ev
	}
	return game, last, nil
}

// broadcastPerSeat pushes every connected seat its own rotated, masked
// view of state, so no seat's websocket feed ever carries another
// player's hidden cards, unlike a Diplomacy phase broadcast where every
// subscriber gets an identical payload.
func (s *MatchService) broadcastPerSeat(matchID string, state coup.State) {
	for seat := 0; seat < len(state.Players); seat++ {
		agentState := view.RotateAndMaskFor(state, seat)
		s.broadcaster.BroadcastMatchEventForSeat(matchID, seat, "state", agentState)
	}
}
