// Command selfplay runs many in-process Coup games between fixed
// strategies and reports win/turn statistics, driving pkg/coup's engine
// directly instead of going through a server and database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/bot"
	"github.com/coupengine/coup/pkg/coup"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		strategyNames string
		numGames      int
		workers       int
		seed          int64
		jsonOut       bool
	)

	flag.StringVar(&strategyNames, "seats", "heuristic,random", "comma-separated strategy per seat (random, heuristic)")
	flag.IntVar(&numGames, "n", 1, "number of games to run")
	flag.IntVar(&workers, "workers", 1, "concurrency (parallel games)")
	flag.Int64Var(&seed, "seed", 0, "base seed (0 = random)")
	flag.BoolVar(&jsonOut, "json", false, "print results as JSON instead of a summary table")
	flag.Parse()

	strategies, err := parseStrategies(strategyNames)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -seats")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down")
		cancel()
	}()

	results := make([]*bot.MatchResult, numGames)
	errs := make([]error, numGames)
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := range numGames {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := seed
			if seed != 0 {
				gameSeed = seed + int64(idx)
			}
			res, err := bot.RunSelfPlay(ctx, bot.SelfPlayConfig{Strategies: strategies, Seed: gameSeed})
			if err != nil {
				errs[idx] = err
				log.Error().Err(err).Int("game", idx+1).Msg("Self-play game failed")
				return
			}
			results[idx] = res
			log.Info().Int("game", idx+1).Int("winner", res.Winner).Int("turns", res.NumTurns).Msg("Game completed")
		}(i)
	}
	wg.Wait()

	if jsonOut {
		printJSON(results, errs)
	} else {
		printSummary(results, strategies)
	}
}

func parseStrategies(spec string) ([]bot.Strategy, error) {
	names := strings.Split(spec, ",")
	if len(names) < 2 || len(names) > 6 {
		return nil, fmt.Errorf("need 2-6 seats, got %d", len(names))
	}
	strategies := make([]bot.Strategy, len(names))
	for i, name := range names {
		switch strings.TrimSpace(name) {
		case "heuristic":
			strategies[i] = bot.HeuristicStrategy{}
		case "random":
			strategies[i] = bot.RandomStrategy{}
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}
	return strategies, nil
}

func printSummary(results []*bot.MatchResult, strategies []bot.Strategy) {
	wins := make([]int, len(strategies))
	completed := 0
	totalTurns := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		totalTurns += r.NumTurns
		if r.Winner >= 0 && r.Winner < len(wins) {
			wins[r.Winner]++
		}
	}

	fmt.Printf("\nResults (%d/%d games completed):\n", completed, len(results))
	for seat, s := range strategies {
		fmt.Printf("  seat %d (%-10s): %d wins\n", seat, s.Name(), wins[seat])
	}
	if completed > 0 {
		fmt.Printf("  avg turns per game: %.1f\n", float64(totalTurns)/float64(completed))
	}
}

func printJSON(results []*bot.MatchResult, errs []error) {
	type entry struct {
		Winner   int        `json:"winner"`
		NumTurns int        `json:"num_turns"`
		State    coup.State `json:"final_state"`
		Error    string     `json:"error,omitempty"`
	}
	out := make([]entry, len(results))
	for i, r := range results {
		if r == nil {
			out[i] = entry{Winner: -1}
			if errs[i] != nil {
				out[i].Error = errs[i].Error()
			}
			continue
		}
		out[i] = entry{Winner: r.Winner, NumTurns: r.NumTurns, State: r.FinalState}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
