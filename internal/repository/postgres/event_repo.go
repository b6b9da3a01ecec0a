package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coupengine/coup/internal/model"
)

// EventRepo handles match_event database operations: one row per
// coup.Game.Play call, the replay/audit trail a PhaseRepo kept per-phase.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates an EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// CreateEvent inserts one match event.
func (r *EventRepo) CreateEvent(ctx context.Context, matchID string, sequence, actorSeat int, action, phase string, stateAfter json.RawMessage) (*model.MatchEvent, error) {
	var e model.MatchEvent
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO match_events (match_id, sequence, actor_seat, action, phase, state_after)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, match_id, sequence, actor_seat, action, phase, state_after, created_at`,
		matchID, sequence, actorSeat, action, phase, stateAfter,
	).Scan(&e.ID, &e.MatchID, &e.Sequence, &e.ActorSeat, &e.Action, &e.Phase, &e.StateAfter, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create match event: %w", err)
	}
	return &e, nil
}

// ListEvents returns all events for a match in sequence order.
func (r *EventRepo) ListEvents(ctx context.Context, matchID string) ([]model.MatchEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, match_id, sequence, actor_seat, action, phase, state_after, created_at
		 FROM match_events WHERE match_id = $1 ORDER BY sequence`, matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	defer rows.Close()

	var events []model.MatchEvent
	for rows.Next() {
		var e model.MatchEvent
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Sequence, &e.ActorSeat, &e.Action, &e.Phase, &e.StateAfter, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LatestEvent returns the most recent event recorded for a match, or nil
// if none have been played yet.
func (r *EventRepo) LatestEvent(ctx context.Context, matchID string) (*model.MatchEvent, error) {
	var e model.MatchEvent
	err := r.db.QueryRowContext(ctx,
		`SELECT id, match_id, sequence, actor_seat, action, phase, state_after, created_at
		 FROM match_events WHERE match_id = $1 ORDER BY sequence DESC LIMIT 1`, matchID,
	).Scan(&e.ID, &e.MatchID, &e.Sequence, &e.ActorSeat, &e.Action, &e.Phase, &e.StateAfter, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest match event: %w", err)
	}
	return &e, nil
}
