package bot

import (
	"github.com/coupengine/coup/internal/view"
	"github.com/coupengine/coup/pkg/coup"
)

// FoldAgentState rebuilds a coup.State-shaped value from a rotated,
// masked view.AgentState: seat 0 is the acting player itself, matching
// how Game.State presents things to a self-play strategy. Dealer is left
// zero since no observer, including the acting player, ever sees deck
// contents. A Strategy never needs to know whether it was handed this
// folded shape or the real thing straight out of RunSelfPlay.
func FoldAgentState(a view.AgentState) coup.State {
	players := make([]coup.PlayerState, len(a.Players))
	for i, p := range a.Players {
		players[i] = coup.PlayerState{
			Cash:     p.Cash,
			Hidden:   p.Hidden,
			Revealed: p.Revealed,
			Trace:    p.Trace,
		}
	}
	return coup.State{Game: a.Game, Players: players}
}
