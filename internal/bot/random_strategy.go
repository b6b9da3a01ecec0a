package bot

import "github.com/coupengine/coup/pkg/coup"

// RandomStrategy picks uniformly among the legal actions offered to it.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) Decide(_ coup.State, _ int, legal []string) string {
	return legal[botIntn(len(legal))]
}
