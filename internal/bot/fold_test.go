package bot

import (
	"testing"

	"github.com/coupengine/coup/internal/view"
	"github.com/coupengine/coup/pkg/coup"
)

func TestFoldAgentState_RoundTripsThroughHeuristicStrategy(t *testing.T) {
	target := 1
	s := coup.State{
		Game: coup.GameInfo{
			Phase:        coup.PhaseAwaitingChallenge,
			WhoseTurn:    0,
			PlayerToAct:  0,
			Action:       string(coup.Steal),
			TargetPlayer: &target,
		},
		Players: []coup.PlayerState{
			{Cash: 2, Hidden: []coup.Role{coup.Duke, coup.Captain}},
			{Cash: 5, Hidden: []coup.Role{coup.Contessa, coup.Ambassador}},
		},
	}

	agentState := view.RotateAndMask(s)
	folded := FoldAgentState(agentState)

	if len(folded.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(folded.Players))
	}
	if folded.Players[0].Cash != 2 {
		t.Fatalf("expected own seat's cash preserved, got %d", folded.Players[0].Cash)
	}

	legal := []string{"challenge", "pass"}
	action := HeuristicStrategy{}.Decide(folded, 0, legal)
	if action != "challenge" && action != "pass" {
		t.Fatalf("expected a legal decision, got %q", action)
	}
}

func TestFoldAgentState_MasksStayMasked(t *testing.T) {
	s := coup.State{
		Game: coup.GameInfo{Phase: coup.PhaseStartOfTurn, WhoseTurn: 0, PlayerToAct: 0},
		Players: []coup.PlayerState{
			{Cash: 2, Hidden: []coup.Role{coup.Duke}},
			{Cash: 2, Hidden: []coup.Role{coup.Assassin, coup.Contessa}},
		},
	}

	folded := FoldAgentState(view.RotateAndMask(s))

	for _, r := range folded.Players[1].Hidden {
		if r != "hidden" {
			t.Fatalf("expected opponent cards to stay masked after folding, got %v", r)
		}
	}
	if len(folded.Players[1].Hidden) != 2 {
		t.Fatalf("expected card count preserved under masking, got %d", len(folded.Players[1].Hidden))
	}
}
