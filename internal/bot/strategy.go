// Package bot provides fixed, rule-based seat responders for driving a
// pkg/coup game end-to-end without a human or a trained agent attached —
// self-play smoke-matches and filling empty seats.
package bot

import "github.com/coupengine/coup/pkg/coup"

// Strategy picks one of the legal actions available to seat on its turn.
// legal is always non-empty when Decide is called; implementations must
// return a string drawn verbatim from it.
type Strategy interface {
	Name() string
	Decide(state coup.State, seat int, legal []string) string
}
