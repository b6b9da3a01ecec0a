package bot

import (
	"context"
	"testing"
)

func TestRunSelfPlay_RandomVsRandom_Terminates(t *testing.T) {
	SeedBotRng(1)
	defer ResetBotRng()

	for seed := int64(1); seed <= 20; seed++ {
		cfg := SelfPlayConfig{
			Strategies: []Strategy{RandomStrategy{}, RandomStrategy{}, RandomStrategy{}},
			Seed:       seed,
		}
		result, err := RunSelfPlay(context.Background(), cfg)
		if err != nil {
			t.Fatalf("seed %d: RunSelfPlay: %v", seed, err)
		}
		if result.Winner < 0 || result.Winner >= 3 {
			t.Fatalf("seed %d: winner out of range: %d", seed, result.Winner)
		}
		if result.NumTurns == 0 {
			t.Fatalf("seed %d: expected at least one play", seed)
		}
	}
}

func TestRunSelfPlay_HeuristicVsHeuristic_Terminates(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		cfg := SelfPlayConfig{
			Strategies: []Strategy{HeuristicStrategy{}, HeuristicStrategy{}},
			Seed:       seed,
		}
		result, err := RunSelfPlay(context.Background(), cfg)
		if err != nil {
			t.Fatalf("seed %d: RunSelfPlay: %v", seed, err)
		}
		if result.Winner != 0 && result.Winner != 1 {
			t.Fatalf("seed %d: unexpected winner %d", seed, result.Winner)
		}
	}
}

func TestRunSelfPlay_MixedStrategies(t *testing.T) {
	cfg := SelfPlayConfig{
		Strategies: []Strategy{HeuristicStrategy{}, RandomStrategy{}, HeuristicStrategy{}, RandomStrategy{}},
		Seed:       42,
	}
	result, err := RunSelfPlay(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunSelfPlay: %v", err)
	}
	if result.FinalState.Game.Phase != "game_over" {
		t.Fatalf("expected game_over phase, got %q", result.FinalState.Game.Phase)
	}
}

func TestRunSelfPlay_RejectsInvalidSeatCount(t *testing.T) {
	cfg := SelfPlayConfig{Strategies: []Strategy{RandomStrategy{}}}
	if _, err := RunSelfPlay(context.Background(), cfg); err == nil {
		t.Fatal("expected error for single-strategy config")
	}
}
