package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/pkg/coup"
)

// PollInterval is how often Runner.Run checks whether it is this
// agent's turn when the match isn't currently waiting on it.
const PollInterval = 500 * time.Millisecond

// Runner drives one Client through a full match using a Strategy,
// polling for its turn since a Coup match has exactly one seat to act
// at a time.
type Runner struct {
	client   *Client
	strategy Strategy
}

// NewRunner creates a Runner.
func NewRunner(client *Client, strategy Strategy) *Runner {
	return &Runner{client: client, strategy: strategy}
}

// Run polls matchID until the match finishes, submitting an action
// whenever SeatView reports this agent's own legal actions, and returns
// the winning seat once the game is over.
func (r *Runner) Run(ctx context.Context, matchID string) (int, error) {
	log.Info().Str("agent", r.client.Name()).Str("strategy", r.strategy.Name()).Str("match", matchID).Msg("Starting agent run")

	for {
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		default:
		}

		seatView, err := r.client.GetView(matchID)
		if err != nil {
			return -1, fmt.Errorf("get view: %w", err)
		}

		if seatView.Game.Phase == coup.PhaseGameOver {
			winner := -1
			if seatView.Game.WinningPlayer != nil {
				winner = *seatView.Game.WinningPlayer
			}
			log.Info().Str("agent", r.client.Name()).Int("winner", winner).Msg("Match finished")
			return winner, nil
		}

		if len(seatView.LegalActions) == 0 {
			if err := sleep(ctx, PollInterval); err != nil {
				return -1, err
			}
			continue
		}

		state := FoldAgentState(seatView.AgentState)
		action := r.strategy.Decide(state, 0, seatView.LegalActions)
		if err := r.client.SubmitAction(matchID, action); err != nil {
			return -1, fmt.Errorf("submit action %q: %w", action, err)
		}
		log.Debug().Str("agent", r.client.Name()).Str("action", action).Msg("Action submitted")
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
