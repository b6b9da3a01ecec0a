package view

import (
	"testing"

	"github.com/coupengine/coup/pkg/coup"
)

func TestRotateAndMask_ActingPlayerBecomesSeatZero(t *testing.T) {
	target := 0
	s := coup.State{
		Game: coup.GameInfo{
			Phase:        coup.PhaseAwaitingChallenge,
			WhoseTurn:    2,
			PlayerToAct:  2,
			Action:       string(coup.Steal),
			TargetPlayer: &target,
		},
		Players: []coup.PlayerState{
			{Cash: 2, Hidden: []coup.Role{coup.Duke, coup.Captain}},
			{Cash: 2, Hidden: []coup.Role{coup.Assassin}},
			{Cash: 5, Hidden: []coup.Role{coup.Contessa, coup.Ambassador}},
		},
	}

	got := RotateAndMask(s)

	if got.Game.PlayerToAct != 0 {
		t.Fatalf("expected acting player rotated to 0, got %d", got.Game.PlayerToAct)
	}
	if got.Game.WhoseTurn != 0 {
		t.Fatalf("expected whose_turn rotated to 0, got %d", got.Game.WhoseTurn)
	}
	if got.Game.TargetPlayer == nil || *got.Game.TargetPlayer != 1 {
		t.Fatalf("expected target player rotated to 1 (0 - 2 mod 3), got %v", got.Game.TargetPlayer)
	}
	if len(got.Players[0].Hidden) != 2 || got.Players[0].Hidden[0] != coup.Contessa {
		t.Fatalf("expected seat 0 to be the full, unmasked acting player, got %v", got.Players[0])
	}
	for _, seat := range got.Players[1:] {
		for _, h := range seat.Hidden {
			if h != maskedRole {
				t.Fatalf("expected opponent hidden cards masked, got %v", seat.Hidden)
			}
		}
	}
}

func TestRotateAndMask_GameOverReturnsFullUnmasked(t *testing.T) {
	winner := 1
	s := coup.State{
		Game: coup.GameInfo{Phase: coup.PhaseGameOver, WinningPlayer: &winner},
		Players: []coup.PlayerState{
			{Cash: 0, Revealed: []coup.Role{coup.Duke, coup.Captain}},
			{Cash: 9, Hidden: []coup.Role{coup.Contessa}},
		},
	}
	got := RotateAndMask(s)
	if len(got.Players[1].Hidden) != 1 || got.Players[1].Hidden[0] != coup.Contessa {
		t.Fatalf("expected unmasked hidden cards at game over, got %v", got.Players[1].Hidden)
	}
}

func TestRotateAndMaskFor_DrawnRolesOnlyVisibleToActor(t *testing.T) {
	s := coup.State{
		Game: coup.GameInfo{
			Phase:       coup.PhaseChooseNewRoles,
			WhoseTurn:   1,
			PlayerToAct: 1,
			Action:      string(coup.Exchange),
			DrawnRoles:  []coup.Role{coup.Duke, coup.Assassin},
		},
		Players: []coup.PlayerState{
			{Cash: 2, Hidden: []coup.Role{coup.Captain}},
			{Cash: 2, Hidden: []coup.Role{coup.Contessa}},
		},
	}

	actorView := RotateAndMaskFor(s, 1)
	if len(actorView.Game.DrawnRoles) != 2 {
		t.Fatalf("expected the acting player to see its own drawn roles, got %v", actorView.Game.DrawnRoles)
	}

	observerView := RotateAndMaskFor(s, 0)
	if observerView.Game.DrawnRoles != nil {
		t.Fatalf("expected drawn_roles blanked for a non-acting observer, got %v", observerView.Game.DrawnRoles)
	}
}

func TestRotateAction_RoundTrips(t *testing.T) {
	actingPlayer := 2
	numPlayers := 4
	original := "steal:3"
	rotated := RotateAction(original, actingPlayer, numPlayers)
	back := UnrotateAction(rotated, actingPlayer, numPlayers)
	if back != original {
		t.Fatalf("expected round trip to %q, got %q (rotated=%q)", original, back, rotated)
	}
}

func TestRotateAction_LeavesUntargetedActionsAlone(t *testing.T) {
	if got := RotateAction("income", 1, 3); got != "income" {
		t.Fatalf("expected untargeted action unchanged, got %q", got)
	}
}
