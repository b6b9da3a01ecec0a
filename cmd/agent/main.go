package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/bot"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	name := flag.String("name", "", "agent name (required)")
	strategyName := flag.String("strategy", "heuristic", "agent strategy (heuristic, random)")
	matchID := flag.String("match", "", "existing match ID to join; empty creates one")
	matchName := flag.String("match-name", "Agent Match", "name for a newly created match")
	numSeats := flag.Int("seats", 2, "seat count for a newly created match")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *name == "" {
		log.Fatal().Msg("-name is required")
	}

	var strategy bot.Strategy
	switch *strategyName {
	case "random":
		strategy = bot.RandomStrategy{}
	default:
		strategy = bot.HeuristicStrategy{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	client := bot.NewClient(*name, *url)
	if err := client.Register(); err != nil {
		log.Fatal().Err(err).Msg("Agent registration failed")
	}

	id, err := joinOrCreateMatch(client, *matchID, *matchName, *numSeats)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to join match")
	}
	log.Info().Str("match", id).Msg("Joined match")

	winner, err := bot.NewRunner(client, strategy).Run(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Msg("Agent run failed")
	}
	log.Info().Int("winner", winner).Msg("Match completed")
}

// joinOrCreateMatch joins an already-running match by ID, or creates a
// fresh one and, as its creator, waits for the remaining seats to fill
// before starting it itself.
func joinOrCreateMatch(client *bot.Client, matchID, matchName string, numSeats int) (string, error) {
	if matchID != "" {
		if _, err := client.JoinMatch(matchID); err != nil {
			return "", fmt.Errorf("join %s: %w", matchID, err)
		}
		return matchID, nil
	}

	match, err := client.CreateMatch(matchName, numSeats)
	if err != nil {
		return "", fmt.Errorf("create match: %w", err)
	}

	for {
		current, err := client.GetMatch(match.ID)
		if err != nil {
			return "", fmt.Errorf("poll match: %w", err)
		}
		if len(current.Players) == current.NumSeats {
			break
		}
		log.Info().Str("match", match.ID).Int("joined", len(current.Players)).Int("of", current.NumSeats).Msg("Waiting for seats to fill")
		time.Sleep(2 * time.Second)
	}

	if _, err := client.StartMatch(match.ID); err != nil {
		return "", fmt.Errorf("start match: %w", err)
	}
	return match.ID, nil
}
