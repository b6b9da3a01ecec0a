package bot

import "math/rand"

// botRng is the package-level random source used by RandomStrategy
// (HeuristicStrategy is fully deterministic and draws nothing). When nil, the functions below delegate
// to the global math/rand default. This is independent of pkg/coup's
// injected RNG interface — the engine itself must never fall back to a
// package-level default, but bot decision-making has no such constraint.
var botRng *rand.Rand

// SeedBotRng sets a deterministic random source for reproducible self-play.
func SeedBotRng(seed int64) {
	botRng = rand.New(rand.NewSource(seed))
}

// ResetBotRng reverts to the default (non-deterministic) global random source.
func ResetBotRng() {
	botRng = nil
}

func botIntn(n int) int {
	if botRng != nil {
		return botRng.Intn(n)
	}
	return rand.Intn(n)
}
