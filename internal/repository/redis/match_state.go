package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis match state.
func stateKey(matchID string) string        { return "match:" + matchID + ":state" }
func deadlineKey(matchID string) string     { return "match:" + matchID + ":deadline" }
func matchmakingKey(numSeats int) string    { return fmt.Sprintf("matchmaking:%d:queue", numSeats) }

// SetMatchState stores the live match state JSON: the full server-side
// coup.State, unrotated and unmasked.
func (c *Client) SetMatchState(ctx context.Context, matchID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(matchID), []byte(state), 0).Err()
}

// GetMatchState retrieves the live match state JSON.
func (c *Client) GetMatchState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match state: %w", err)
	}
	return json.RawMessage(data), nil
}

// DeleteMatchState removes the cached state for a finished or abandoned match.
func (c *Client) DeleteMatchState(ctx context.Context, matchID string) error {
	return c.rdb.Del(ctx, stateKey(matchID)).Err()
}

// EnqueueMatchmaking adds a user to the FIFO queue for matches of the
// given seat count. Unlike a Diplomacy lobby, where players browse and
// pick an open game, agents here request "a match with N seats" and
// wait to be paired.
func (c *Client) EnqueueMatchmaking(ctx context.Context, userID string, numSeats int) error {
	return c.rdb.RPush(ctx, matchmakingKey(numSeats), userID).Err()
}

// DequeueMatchmaking pops up to numSeats waiting users for a match of
// that size. It returns nil without popping anything if fewer than
// numSeats users are currently queued, so a match is never formed
// short-handed.
func (c *Client) DequeueMatchmaking(ctx context.Context, numSeats int) ([]string, error) {
	key := matchmakingKey(numSeats)
	length, err := c.rdb.LLen(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("matchmaking queue length: %w", err)
	}
	if length < int64(numSeats) {
		return nil, nil
	}
	users, err := c.rdb.LPopCount(ctx, key, numSeats).Result()
	if err != nil {
		return nil, fmt.Errorf("dequeue matchmaking: %w", err)
	}
	return users, nil
}

// QueueLength returns how many users are waiting for a match of the given size.
func (c *Client) QueueLength(ctx context.Context, numSeats int) (int64, error) {
	n, err := c.rdb.LLen(ctx, matchmakingKey(numSeats)).Result()
	if err != nil {
		return 0, fmt.Errorf("matchmaking queue length: %w", err)
	}
	return n, nil
}

// turnDeadlineGrace is the extra time after the displayed deadline
// before a timed-out agent's turn is forfeited to a forced default action,
// giving a slow subprocess a few seconds of leeway.
const turnDeadlineGrace = 5 * time.Second

// SetTurnDeadline creates a deadline key with a TTL. When the key
// expires, Redis keyspace notifications can trigger a forced pass for
// an agent that failed to respond in time.
func (c *Client) SetTurnDeadline(ctx context.Context, matchID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnDeadlineGrace
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, deadlineKey(matchID), deadline.Unix(), ttl).Err()
}

// ClearTurnDeadline removes the turn deadline for a match.
func (c *Client) ClearTurnDeadline(ctx context.Context, matchID string) error {
	return c.rdb.Del(ctx, deadlineKey(matchID)).Err()
}

// TurnDeadlinePassed reports whether a match's deadline key has expired.
// SetTurnDeadline is called for every active match on every turn change,
// so for a still-active match a missing key means its TTL ran out rather
// than that a deadline was simply never set.
func (c *Client) TurnDeadlinePassed(ctx context.Context, matchID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, deadlineKey(matchID)).Result()
	if err != nil {
		return false, fmt.Errorf("check turn deadline: %w", err)
	}
	return n == 0, nil
}
