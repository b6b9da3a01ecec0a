package bot

import (
	"testing"

	"github.com/coupengine/coup/pkg/coup"
)

func TestHeuristicStrategy_RevealsWeakestRole(t *testing.T) {
	h := HeuristicStrategy{}
	legal := []string{"reveal:duke", "reveal:ambassador", "reveal:captain"}
	got := h.Decide(coup.State{}, 0, legal)
	if got != "reveal:ambassador" {
		t.Fatalf("expected to reveal ambassador first, got %q", got)
	}
}

func TestHeuristicStrategy_KeepsHighestValueRoles(t *testing.T) {
	h := HeuristicStrategy{}
	legal := []string{"keep:ambassador,contessa", "keep:duke,captain"}
	got := h.Decide(coup.State{}, 0, legal)
	if got != "keep:duke,captain" {
		t.Fatalf("expected to keep duke+captain, got %q", got)
	}
}

func TestHeuristicStrategy_ChallengesWhenTwoCopiesAlreadyVisible(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{
		Game: coup.GameInfo{Action: "tax"},
		Players: []coup.PlayerState{
			{Hidden: []coup.Role{coup.Duke}},
			{Revealed: []coup.Role{coup.Duke}},
		},
	}
	got := h.Decide(state, 0, []string{"pass", "challenge"})
	if got != "challenge" {
		t.Fatalf("expected challenge with 2 of 3 dukes visible, got %q", got)
	}
}

func TestHeuristicStrategy_PassesWhenClaimIsPlausible(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{
		Game:    coup.GameInfo{Action: "tax"},
		Players: []coup.PlayerState{{Hidden: []coup.Role{coup.Captain}}, {}},
	}
	got := h.Decide(state, 0, []string{"pass", "challenge"})
	if got != "pass" {
		t.Fatalf("expected pass with no dukes visible, got %q", got)
	}
}

func TestHeuristicStrategy_BlocksForeignAidWhenHoldingDuke(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{Players: []coup.PlayerState{{Hidden: []coup.Role{coup.Duke}}}}
	got := h.Decide(state, 0, []string{"pass", "block:duke"})
	if got != "block:duke" {
		t.Fatalf("expected to block foreign aid with duke in hand, got %q", got)
	}
}

func TestHeuristicStrategy_DoesNotBlockWithoutTheClaimedRole(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{Players: []coup.PlayerState{{Hidden: []coup.Role{coup.Assassin}}}}
	got := h.Decide(state, 0, []string{"pass", "block:duke"})
	if got != "pass" {
		t.Fatalf("expected pass without duke in hand, got %q", got)
	}
}

func TestHeuristicStrategy_TaxesWhenHoldingDuke(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{Players: []coup.PlayerState{{Cash: 2, Hidden: []coup.Role{coup.Duke, coup.Assassin}}}}
	got := h.Decide(state, 0, []string{"income", "foreign_aid", "tax", "exchange"})
	if got != "tax" {
		t.Fatalf("expected tax with duke in hand, got %q", got)
	}
}

func TestHeuristicStrategy_CoupsWeakestTargetWhenAffordable(t *testing.T) {
	h := HeuristicStrategy{}
	state := coup.State{Players: []coup.PlayerState{
		{Cash: 7, Hidden: []coup.Role{coup.Duke, coup.Assassin}},
		{Hidden: []coup.Role{coup.Contessa, coup.Captain}},
		{Hidden: []coup.Role{coup.Ambassador}},
	}}
	legal := []string{"coup:1", "coup:2"}
	got := h.Decide(state, 0, legal)
	if got != "coup:2" {
		t.Fatalf("expected to coup the weaker seat 2, got %q", got)
	}
}
