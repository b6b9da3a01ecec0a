package bot

import (
	"strconv"
	"strings"

	"github.com/coupengine/coup/pkg/coup"
)

// HeuristicStrategy is a fixed rule-based responder: no learning, no
// persisted weights, just a small decision table. It never inspects an
// opponent's hidden roles — only its own hand, the public Revealed trace,
// and the cash/card counts every observer can see — so the same logic
// works whether it is handed a full coup.State or a rotated/masked
// internal/view.AgentState's worth of information folded back into one.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

// roleValue ranks roles by offensive usefulness: Duke and Captain (steady
// income/theft) outrank Assassin, which outranks the purely defensive
// Contessa and Ambassador. Lower value is revealed first when a card must
// be given up.
var roleValue = map[coup.Role]int{
	coup.Duke:       5,
	coup.Captain:    4,
	coup.Assassin:   3,
	coup.Contessa:   2,
	coup.Ambassador: 1,
}

// claimRole maps a challengeable initial action name to the role it claims. Mirrors
// pkg/coup's own action-to-role mapping but kept independent since that
// table is unexported.
var claimRole = map[string]coup.Role{
	"tax":         coup.Duke,
	"steal":       coup.Captain,
	"assassinate": coup.Assassin,
	"exchange":    coup.Ambassador,
}

func (h HeuristicStrategy) Decide(state coup.State, seat int, legal []string) string {
	switch {
	case containsPrefix(legal, "reveal:"):
		return h.chooseReveal(legal)
	case containsPrefix(legal, "keep:"):
		return h.chooseKeep(legal)
	case contains(legal, "challenge") && contains(legal, "pass"):
		return h.chooseChallengeOrPass(state, seat, legal)
	case containsPrefix(legal, "block:"):
		return h.chooseBlock(state, seat, legal)
	default:
		return h.chooseTurnAction(state, seat, legal)
	}
}

func (h HeuristicStrategy) chooseReveal(legal []string) string {
	best := legal[0]
	bestValue := roleValue[coup.Role(strings.TrimPrefix(best, "reveal:"))]
	for _, action := range legal[1:] {
		r := coup.Role(strings.TrimPrefix(action, "reveal:"))
		if v := roleValue[r]; v < bestValue {
			best, bestValue = action, v
		}
	}
	return best
}

func (h HeuristicStrategy) chooseKeep(legal []string) string {
	best := legal[0]
	bestScore := keepScore(best)
	for _, action := range legal[1:] {
		if s := keepScore(action); s > bestScore {
			best, bestScore = action, s
		}
	}
	return best
}

func keepScore(token string) int {
	roles := strings.Split(strings.TrimPrefix(token, "keep:"), ",")
	total := 0
	for _, r := range roles {
		total += roleValue[coup.Role(r)]
	}
	return total
}

// chooseChallengeOrPass doubts a claim once 2 of that role's 3 copies are
// already visible — in the bot's own hand or in any player's revealed
// pile — leaving too few unaccounted-for copies to make the claim likely.
func (h HeuristicStrategy) chooseChallengeOrPass(state coup.State, seat int, legal []string) string {
	claimed, ok := claimRole[state.Game.Action]
	if !ok {
		return "pass"
	}
	visible := 0
	for _, r := range state.Players[seat].Hidden {
		if r == claimed {
			visible++
		}
	}
	for _, p := range state.Players {
		for _, r := range p.Revealed {
			if r == claimed {
				visible++
			}
		}
	}
	if visible >= 2 {
		return "challenge"
	}
	return "pass"
}

func (h HeuristicStrategy) chooseBlock(state coup.State, seat int, legal []string) string {
	for _, action := range legal {
		if !strings.HasPrefix(action, "block:") {
			continue
		}
		role := coup.Role(strings.TrimPrefix(action, "block:"))
		if state.Players[seat].HasRole(role) {
			return action
		}
	}
	return "pass"
}

func (h HeuristicStrategy) chooseTurnAction(state coup.State, seat int, legal []string) string {
	self := state.Players[seat]

	if self.Cash >= 7 {
		if _, ok := pickTargeted(legal, "coup:", true); ok {
			return weakestTarget(state, legal, "coup:")
		}
	}
	if self.HasRole(coup.Assassin) && self.Cash >= 3 {
		if _, ok := pickTargeted(legal, "assassinate:", true); ok {
			return weakestTarget(state, legal, "assassinate:")
		}
	}
	if self.HasRole(coup.Captain) {
		if _, ok := pickTargeted(legal, "steal:", true); ok {
			return weakestTarget(state, legal, "steal:")
		}
	}
	if self.HasRole(coup.Duke) && contains(legal, "tax") {
		return "tax"
	}
	if contains(legal, "exchange") && !self.HasRole(coup.Duke) && !self.HasRole(coup.Captain) {
		return "exchange"
	}
	if contains(legal, "foreign_aid") {
		return "foreign_aid"
	}
	return "income"
}

// weakestTarget picks, among the legal actions sharing prefix, the target
// with the fewest remaining hidden cards (closest to elimination). Card
// counts are visible to every observer even when the roles themselves are
// masked.
func weakestTarget(state coup.State, legal []string, prefix string) string {
	best := ""
	bestCount := -1
	for _, action := range legal {
		if !strings.HasPrefix(action, prefix) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(action, prefix))
		if err != nil {
			continue
		}
		count := len(state.Players[id].Hidden)
		if best == "" || count < bestCount {
			best, bestCount = action, count
		}
	}
	return best
}

func pickTargeted(legal []string, prefix string, want bool) (string, bool) {
	if !want {
		return "", false
	}
	for _, action := range legal {
		if strings.HasPrefix(action, prefix) {
			return action, true
		}
	}
	return "", false
}

func contains(legal []string, action string) bool {
	for _, a := range legal {
		if a == action {
			return true
		}
	}
	return false
}

func containsPrefix(legal []string, prefix string) bool {
	for _, a := range legal {
		if strings.HasPrefix(a, prefix) {
			return true
		}
	}
	return false
}
