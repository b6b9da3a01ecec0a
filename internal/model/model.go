package model

import (
	"encoding/json"
	"time"
)

// User represents a registered agent account (human-operated or bot).
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Match represents one played or in-progress Coup game.
type Match struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatorID    string        `json:"creator_id"`
	Status       string        `json:"status"` // waiting, active, finished
	NumSeats     int           `json:"num_seats"`
	WinnerSeat   *int          `json:"winner_seat,omitempty"`
	RNGSeed      int64         `json:"rng_seed"`
	CreatedAt    time.Time     `json:"created_at"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	FinishedAt   *time.Time    `json:"finished_at,omitempty"`
	Players      []MatchPlayer `json:"players,omitempty"`
}

// MatchPlayer represents one agent's seat assignment in a match.
type MatchPlayer struct {
	MatchID       string    `json:"match_id"`
	UserID        string    `json:"user_id"`
	Seat          int       `json:"seat"`
	IsBot         bool      `json:"is_bot"`
	BotDifficulty string    `json:"bot_difficulty,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// MatchEvent is one row per Game.Play call: the raw action string an
// agent submitted, the phase/state snapshot it produced, and enough
// context to replay or audit a match turn by turn. Never consulted by
// pkg/coup itself — purely a persistence/replay concern.
type MatchEvent struct {
	ID          string          `json:"id"`
	MatchID     string          `json:"match_id"`
	Sequence    int             `json:"sequence"`
	ActorSeat   int             `json:"actor_seat"`
	Action      string          `json:"action"`
	Phase       string          `json:"phase"`
	StateAfter  json.RawMessage `json:"state_after"`
	CreatedAt   time.Time       `json:"created_at"`
}
