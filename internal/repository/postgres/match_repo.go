package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coupengine/coup/internal/model"
)

// MatchRepo handles match and match_player database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create inserts a new match.
func (r *MatchRepo) Create(ctx context.Context, name, creatorID string, numSeats int, rngSeed int64) (*model.Match, error) {
	var m model.Match
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO matches (name, creator_id, num_seats, rng_seed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, creator_id, status, num_seats, rng_seed, created_at`,
		name, creatorID, numSeats, rngSeed,
	).Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.NumSeats, &m.RNGSeed, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return &m, nil
}

// FindByID returns a match by ID with its seats.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var winner sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, status, num_seats, winner_seat, rng_seed, created_at, started_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.NumSeats, &winner, &m.RNGSeed, &m.CreatedAt, &m.StartedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	if winner.Valid {
		seat := int(winner.Int64)
		m.WinnerSeat = &seat
	}

	players, err := r.ListPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Players = players
	return &m, nil
}

func (r *MatchRepo) listByStatus(ctx context.Context, status string, limit int, orderBy string) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, creator_id, status, num_seats, rng_seed, created_at
		 FROM matches WHERE status = $1 ORDER BY %s LIMIT $2`, orderBy),
		status, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches by status %q: %w", status, err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.NumSeats, &m.RNGSeed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListOpen returns matches in "waiting" status.
func (r *MatchRepo) ListOpen(ctx context.Context) ([]model.Match, error) {
	return r.listByStatus(ctx, "waiting", 50, "created_at DESC")
}

// ListFinished returns finished matches, most recent first.
func (r *MatchRepo) ListFinished(ctx context.Context) ([]model.Match, error) {
	return r.listByStatus(ctx, "finished", 100, "finished_at DESC")
}

// ListActive returns matches with status 'active', including their seats.
func (r *MatchRepo) ListActive(ctx context.Context) ([]model.Match, error) {
	matches, err := r.listByStatus(ctx, "active", 1000, "created_at")
	if err != nil {
		return nil, err
	}
	for i := range matches {
		players, err := r.ListPlayers(ctx, matches[i].ID)
		if err != nil {
			return nil, err
		}
		matches[i].Players = players
	}
	return matches, nil
}

// ListByUser returns all matches a user is part of (as seat holder or creator).
func (r *MatchRepo) ListByUser(ctx context.Context, userID string) ([]model.Match, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT m.id, m.name, m.creator_id, m.status, m.num_seats, m.rng_seed, m.created_at
		 FROM matches m LEFT JOIN match_players mp ON m.id = mp.match_id AND mp.user_id = $1
		 WHERE mp.user_id = $1 OR m.creator_id = $1
		 ORDER BY m.created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatorID, &m.Status, &m.NumSeats, &m.RNGSeed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// JoinMatch seats a human/external-agent user at the given seat. A user
// already seated in the match is left as is.
func (r *MatchRepo) JoinMatch(ctx context.Context, matchID, userID string, seat int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_players (match_id, user_id, seat) VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		matchID, userID, seat,
	)
	if err != nil {
		return fmt.Errorf("join match: %w", err)
	}
	return nil
}

// JoinMatchAsBot seats a bot-controlled user with the given difficulty level.
func (r *MatchRepo) JoinMatchAsBot(ctx context.Context, matchID, userID, difficulty string, seat int) error {
	if difficulty == "" {
		difficulty = "heuristic"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_players (match_id, user_id, seat, is_bot, bot_difficulty) VALUES ($1, $2, $3, true, $4)
		 ON CONFLICT DO NOTHING`,
		matchID, userID, seat, difficulty,
	)
	if err != nil {
		return fmt.Errorf("join match as bot: %w", err)
	}
	return nil
}

// ListPlayers returns all seated players in a match, ordered by seat.
func (r *MatchRepo) ListPlayers(ctx context.Context, matchID string) ([]model.MatchPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, user_id, seat, is_bot, bot_difficulty, joined_at FROM match_players WHERE match_id = $1 ORDER BY seat`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.MatchPlayer
	for rows.Next() {
		var p model.MatchPlayer
		var difficulty sql.NullString
		if err := rows.Scan(&p.MatchID, &p.UserID, &p.Seat, &p.IsBot, &difficulty, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.BotDifficulty = difficulty.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// PlayerCount returns the number of seated players in a match.
func (r *MatchRepo) PlayerCount(ctx context.Context, matchID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_players WHERE match_id = $1`, matchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("player count: %w", err)
	}
	return count, nil
}

// SetStarted marks a match active once all seats are filled.
func (r *MatchRepo) SetStarted(ctx context.Context, matchID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'active', started_at = now() WHERE id = $1`, matchID,
	)
	if err != nil {
		return fmt.Errorf("set started: %w", err)
	}
	return nil
}

// SetFinished marks a match finished with the winning seat.
func (r *MatchRepo) SetFinished(ctx context.Context, matchID string, winnerSeat int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'finished', winner_seat = $1, finished_at = now() WHERE id = $2`,
		winnerSeat, matchID,
	)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

// Delete removes a match and all associated data (cascades to players and events).
func (r *MatchRepo) Delete(ctx context.Context, matchID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}
