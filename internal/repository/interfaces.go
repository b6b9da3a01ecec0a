package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coupengine/coup/internal/model"
)

// UserRepository defines agent-account data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// MatchRepository defines match and seat data operations.
type MatchRepository interface {
	Create(ctx context.Context, name, creatorID string, numSeats int, rngSeed int64) (*model.Match, error)
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListOpen(ctx context.Context) ([]model.Match, error)
	ListByUser(ctx context.Context, userID string) ([]model.Match, error)
	ListFinished(ctx context.Context) ([]model.Match, error)
	ListActive(ctx context.Context) ([]model.Match, error)
	JoinMatch(ctx context.Context, matchID, userID string, seat int) error
	JoinMatchAsBot(ctx context.Context, matchID, userID, difficulty string, seat int) error
	PlayerCount(ctx context.Context, matchID string) (int, error)
	SetStarted(ctx context.Context, matchID string) error
	SetFinished(ctx context.Context, matchID string, winnerSeat int) error
	Delete(ctx context.Context, matchID string) error
}

// EventRepository defines match-event (per-action) persistence: the
// replay/audit trail a PhaseRepository kept as per-phase orders, here one
// row per Game.Play call instead.
type EventRepository interface {
	CreateEvent(ctx context.Context, matchID string, sequence, actorSeat int, action, phase string, stateAfter json.RawMessage) (*model.MatchEvent, error)
	ListEvents(ctx context.Context, matchID string) ([]model.MatchEvent, error)
	LatestEvent(ctx context.Context, matchID string) (*model.MatchEvent, error)
}

// MatchCache defines live match state and matchmaking-queue operations
// (Redis). A Coup match has no simultaneous-order "ready" bookkeeping the
// way a Diplomacy phase does — seats act one at a time — so this is
// smaller than a GameCache: a fast-read state cache, the matchmaking
// queue new seats wait in until a match fills, and a per-match turn
// deadline for agents that time out.
type MatchCache interface {
	SetMatchState(ctx context.Context, matchID string, state json.RawMessage) error
	GetMatchState(ctx context.Context, matchID string) (json.RawMessage, error)
	DeleteMatchState(ctx context.Context, matchID string) error

	EnqueueMatchmaking(ctx context.Context, userID string, numSeats int) error
	DequeueMatchmaking(ctx context.Context, numSeats int) ([]string, error)
	QueueLength(ctx context.Context, numSeats int) (int64, error)

	SetTurnDeadline(ctx context.Context, matchID string, deadline time.Time) error
	ClearTurnDeadline(ctx context.Context, matchID string) error
	TurnDeadlinePassed(ctx context.Context, matchID string) (bool, error)
}
