package bot

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/coupengine/coup/pkg/coup"
)

// MaxSelfPlayTurns bounds a self-play game so a strategy bug (or a
// genuinely unbreakable cycle) cannot hang a match runner forever.
const MaxSelfPlayTurns = 10_000

// MatchResult summarizes a completed self-play game.
type MatchResult struct {
	Winner     int
	NumTurns   int
	FinalState coup.State
}

// SelfPlayConfig configures one in-process self-play game.
type SelfPlayConfig struct {
	Strategies []Strategy // one per seat; len determines player count
	Seed       int64      // 0 picks a random seed
}

// seededRNG adapts math/rand to pkg/coup's RNG interface.
type seededRNG struct{ r *rand.Rand }

func (s seededRNG) Intn(n int) int { return s.r.Intn(n) }

// RunSelfPlay drives a complete coup.Game to termination using one
// Strategy per seat, never touching storage — callers that want match
// history persisted wrap this with internal/service.MatchService.
func RunSelfPlay(ctx context.Context, cfg SelfPlayConfig) (*MatchResult, error) {
	n := len(cfg.Strategies)
	if n < 2 || n > 6 {
		return nil, fmt.Errorf("bot: self-play requires 2-6 strategies, got %d", n)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	game := coup.NewGame(n, seededRNG{rand.New(rand.NewSource(seed))})

	numPlays := 0
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if game.IsOver() {
			break
		}
		if numPlays >= MaxSelfPlayTurns {
			return nil, fmt.Errorf("bot: self-play exceeded %d plays without terminating", MaxSelfPlayTurns)
		}

		seat, ok := game.PlayerToAct()
		if !ok {
			break
		}
		legal := game.LegalActions()
		if len(legal) == 0 {
			return nil, fmt.Errorf("bot: no legal actions for seat %d but game not over", seat)
		}

		action := cfg.Strategies[seat].Decide(game.State(), seat, legal)
		if err := game.Play(action); err != nil {
			return nil, fmt.Errorf("bot: strategy %q chose illegal action %q: %w", cfg.Strategies[seat].Name(), action, err)
		}
		numPlays++
	}

	final := game.State()
	winner := -1
	if final.Game.WinningPlayer != nil {
		winner = *final.Game.WinningPlayer
	}
	return &MatchResult{Winner: winner, NumTurns: numPlays, FinalState: final}, nil
}
