package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coupengine/coup/pkg/coup"
)

func newTestMatchService() (*MatchService, *mockMatchRepo, *mockEventRepo, *mockMatchCache) {
	matchRepo := newMockMatchRepo()
	eventRepo := newMockEventRepo()
	cache := newMockMatchCache()
	userRepo := newMockUserRepo()
	svc := NewMatchService(matchRepo, eventRepo, cache, userRepo, nil)
	return svc, matchRepo, eventRepo, cache
}

func TestCreateMatchAutoJoinsCreator(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	match, err := svc.CreateMatch(ctx, "table one", "alice", 3)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if len(match.Players) != 1 || match.Players[0].UserID != "alice" {
		t.Fatalf("expected creator auto-joined at seat 0, got %+v", match.Players)
	}
	if match.Status != "waiting" {
		t.Fatalf("expected new match to be waiting, got %q", match.Status)
	}
}

func TestCreateMatchRejectsBadSeatCount(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	if _, err := svc.CreateMatch(ctx, "table", "alice", 1); err == nil {
		t.Fatal("expected error for 1 seat")
	}
	if _, err := svc.CreateMatch(ctx, "table", "alice", 7); err == nil {
		t.Fatal("expected error for 7 seats")
	}
}

func TestJoinMatchRejectsDuplicateAndFull(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	match, _ := svc.CreateMatch(ctx, "table", "alice", 2)

	if _, err := svc.JoinMatch(ctx, match.ID, "alice"); err != ErrAlreadyJoined {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}

	if _, err := svc.JoinMatch(ctx, match.ID, "bob"); err != nil {
		t.Fatalf("join bob: %v", err)
	}

	if _, err := svc.JoinMatch(ctx, match.ID, "carol"); err != ErrMatchFull {
		t.Fatalf("expected ErrMatchFull, got %v", err)
	}
}

func TestStartMatchRequiresFullLobbyAndCreator(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	match, _ := svc.CreateMatch(ctx, "table", "alice", 2)

	if _, err := svc.StartMatch(ctx, match.ID, "alice"); err != ErrNotEnoughSeats {
		t.Fatalf("expected ErrNotEnoughSeats, got %v", err)
	}

	svc.JoinMatch(ctx, match.ID, "bob")

	if _, err := svc.StartMatch(ctx, match.ID, "bob"); err != ErrNotCreator {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}

	started, err := svc.StartMatch(ctx, match.ID, "alice")
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	if started.Status != "active" {
		t.Fatalf("expected active status, got %q", started.Status)
	}
}

func TestPlayActionEnforcesTurnOrder(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	match, _ := svc.CreateMatch(ctx, "table", "alice", 2)
	svc.JoinMatch(ctx, match.ID, "bob")
	svc.StartMatch(ctx, match.ID, "alice")

	state, err := svc.GetMatchState(ctx, match.ID)
	if err != nil {
		t.Fatalf("get match state: %v", err)
	}
	actor := state.Game.PlayerToAct
	other := 1 - actor

	if _, err := svc.PlayAction(ctx, match.ID, other, "income"); err != ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	next, err := svc.PlayAction(ctx, match.ID, actor, "income")
	if err != nil {
		t.Fatalf("play income: %v", err)
	}
	if next.Players[actor].Cash != 3 {
		t.Fatalf("expected actor's cash to be 3 after income, got %d", next.Players[actor].Cash)
	}
}

func TestPlayActionRejectsIllegalAction(t *testing.T) {
	svc, _, _, _ := newTestMatchService()
	ctx := context.Background()

	match, _ := svc.CreateMatch(ctx, "table", "alice", 2)
	svc.JoinMatch(ctx, match.ID, "bob")
	svc.StartMatch(ctx, match.ID, "alice")

	state, _ := svc.GetMatchState(ctx, match.ID)
	actor := state.Game.PlayerToAct

	_, err := svc.PlayAction(ctx, match.ID, actor, "not-a-real-action")
	if err == nil {
		t.Fatal("expected an error for an illegal action")
	}
	var illegal *coup.IllegalAction
	if !errors.As(err, &illegal) {
		t.Fatalf("expected *coup.IllegalAction, got %T: %v", err, err)
	}
}

func TestJoinMatchAsBotCreatesBotUser(t *testing.T) {
	svc, matchRepo, _, _ := newTestMatchService()
	ctx := context.Background()

	match, _ := svc.CreateMatch(ctx, "table", "alice", 2)
	updated, err := svc.JoinMatchAsBot(ctx, match.ID, "heuristic")
	if err != nil {
		t.Fatalf("join as bot: %v", err)
	}
	if len(updated.Players) != 2 || !updated.Players[1].IsBot {
		t.Fatalf("expected bot seated at seat 1, got %+v", updated.Players)
	}
	if matchRepo.players[match.ID][1].BotDifficulty != "heuristic" {
		t.Fatalf("expected bot difficulty recorded, got %+v", matchRepo.players[match.ID][1])
	}
}
