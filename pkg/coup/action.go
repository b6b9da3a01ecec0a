package coup

import (
	"sort"
	"strings"
)

// action drives a challengeable and/or blockable initial action (tax,
// exchange, steal, assassinate, foreign_aid, coup) from construction
// through its challenge, block, and final-reveal/choose-keep sub-phases
// to completion. Only one of challenge/block/reveal is active at a time;
// exchange's choose_new_roles step is handled directly on the action once
// drawnRoles is set, matching how the action has no challenge or block left
// to delegate to at that point.
type action struct {
	game   *Game
	name   ActionName
	player int
	target *int
	cost   int

	challenge  *challenge
	block      *block
	reveal     *reveal
	drawnRoles []Role
}

// newAction constructs and immediately advances an action to its first
// waiting point: a challenge poll (tax, exchange, steal, assassinate), an
// immediate block poll (foreign_aid, which carries no challengeable claim
// of its own), or straight to a forced reveal (coup, which is neither
// challengeable nor blockable).
func newAction(g *Game, name ActionName, player int, target *int) *action {
	a := &action{game: g, name: name, player: player, target: target, cost: actionCost(name)}
	switch name {
	case Coup:
		g.deductCash(player, a.cost)
		t := *target
		a.reveal = &reveal{game: g, player: t, phaseName: PhaseDirectAttack, parent: a}
	case ForeignAid:
		a.block = newBlock(g, a, player, []Role{Duke}, nil)
	default:
		a.challenge = newChallenge(g, a, player, challengeRole(name))
	}
	return a
}

func (a *action) playerToAct() int {
	switch {
	case a.challenge != nil:
		return a.challenge.playerToAct()
	case a.block != nil:
		return a.block.playerToAct()
	case a.reveal != nil:
		return a.reveal.playerToAct()
	default:
		return a.player
	}
}

func (a *action) play(s string) error {
	switch {
	case a.challenge != nil:
		return a.challenge.play(s)
	case a.block != nil:
		return a.block.play(s)
	case a.reveal != nil:
		return a.reveal.play(s)
	case a.name == Exchange && a.drawnRoles != nil:
		return a.playKeep(s)
	default:
		panic(faultf("action %s has no active sub-resolver", a.name))
	}
}

func (a *action) legalActions() []string {
	switch {
	case a.challenge != nil:
		return a.challenge.legalActions()
	case a.block != nil:
		return a.block.legalActions()
	case a.reveal != nil:
		return a.reveal.legalActions()
	case a.name == Exchange && a.drawnRoles != nil:
		return a.keepChoices()
	default:
		panic(faultf("action %s has no legal actions to offer", a.name))
	}
}

func (a *action) augmentState(info *GameInfo) {
	info.Action = string(a.name)
	if a.target != nil {
		t := *a.target
		info.TargetPlayer = &t
	}
	switch {
	case a.challenge != nil:
		info.Phase = PhaseAwaitingChallenge
		a.challenge.augmentState(info)
	case a.block != nil:
		info.Phase = PhaseAwaitingBlock
		a.block.augmentState(info)
	case a.reveal != nil:
		a.reveal.augmentState(info)
	case a.name == Exchange && a.drawnRoles != nil:
		info.Phase = PhaseChooseNewRoles
		info.DrawnRoles = append([]Role(nil), a.drawnRoles...)
	}
}

// resolveChallenge implements challengeParent. The cost of a challengeable
// action is paid exactly once: here, and only once the claim survives.
func (a *action) resolveChallenge(allowed bool) {
	a.challenge = nil
	if !allowed {
		a.game.endTurn()
		return
	}
	a.game.deductCash(a.player, a.cost)
	if a.target != nil && !a.game.players[*a.target].Alive() {
		// The target was eliminated by the challenge's own reveal cascade
		// before the steal/assassinate could execute; there is nothing left
		// to steal or kill.
		a.game.endTurn()
		return
	}
	a.setUpBlock()
	if a.block == nil {
		a.doAction()
	}
}

func (a *action) setUpBlock() {
	switch a.name {
	case Steal:
		a.block = newBlock(a.game, a, *a.target, []Role{Ambassador, Captain}, a.target)
	case Assassinate:
		a.block = newBlock(a.game, a, *a.target, []Role{Contessa}, a.target)
	}
}

// resolveBlock implements blockParent.
func (a *action) resolveBlock(allowed bool) {
	a.block = nil
	if allowed {
		a.doAction()
	} else {
		a.game.endTurn()
	}
}

func (a *action) doAction() {
	switch a.name {
	case ForeignAid:
		a.game.addCash(a.player, 2)
		a.game.endTurn()
	case Tax:
		a.game.addCash(a.player, 3)
		a.game.endTurn()
	case Steal:
		stolen := a.game.deductCash(*a.target, 2)
		a.game.addCash(a.player, stolen)
		a.game.endTurn()
	case Assassinate:
		t := *a.target
		if !a.game.players[t].Alive() {
			// A caught Contessa bluff already cost the target its last card.
			a.game.endTurn()
			return
		}
		a.reveal = &reveal{game: a.game, player: t, phaseName: PhaseDirectAttack, parent: a}
	case Exchange:
		a.drawnRoles = a.game.deck.Deal(2)
	}
}

// afterReveal implements revealParent, used by assassinate's and coup's
// forced reveal of the target.
func (a *action) afterReveal(role Role) {
	a.game.revealRole(*a.target, role)
	a.reveal = nil
	a.game.endTurn()
}

func (a *action) keepChoices() []string {
	existing := a.game.players[a.player].Hidden
	pool := make([]Role, 0, len(existing)+len(a.drawnRoles))
	pool = append(pool, existing...)
	pool = append(pool, a.drawnRoles...)
	seen := map[string]bool{}
	var out []string
	for _, combo := range combinationsIdx(len(pool), len(existing)) {
		roles := make([]Role, len(combo))
		for i, idx := range combo {
			roles[i] = pool[idx]
		}
		token := canonicalKeepToken(roles)
		if !seen[token] {
			seen[token] = true
			out = append(out, token)
		}
	}
	sort.Strings(out)
	return out
}

func (a *action) playKeep(s string) error {
	roles, err := parseKeepToken(s)
	if err != nil {
		return err
	}
	existing := a.game.players[a.player].Hidden
	if len(roles) != len(existing) {
		return illegalf("must keep exactly %d role(s), got %d", len(existing), len(roles))
	}
	if canonicalKeepToken(roles) != s {
		return illegalf("keep roles must be listed in sorted order: got %q", s)
	}
	pool := make([]Role, 0, len(existing)+len(a.drawnRoles))
	pool = append(pool, existing...)
	pool = append(pool, a.drawnRoles...)
	for _, r := range roles {
		idx := -1
		for i, p := range pool {
			if p == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			return illegalf("role %s is not in the drawn pool", r)
		}
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	a.game.replaceAllRoles(a.player, roles, pool)
	a.drawnRoles = nil
	a.game.players[a.player].recordExchange()
	a.game.endTurn()
	return nil
}

func parseKeepToken(s string) ([]Role, error) {
	rest, ok := strings.CutPrefix(s, "keep:")
	if !ok {
		return nil, illegalf("expected keep:<roles>, got %q", s)
	}
	parts := strings.Split(rest, ",")
	roles := make([]Role, len(parts))
	for i, p := range parts {
		r := Role(p)
		if !isValidRole(r) {
			return nil, illegalf("unknown role %q in keep action", p)
		}
		roles[i] = r
	}
	return roles, nil
}

func canonicalKeepToken(roles []Role) string {
	sorted := append([]Role(nil), roles...)
	sortRoles(sorted)
	strs := make([]string, len(sorted))
	for i, r := range sorted {
		strs[i] = string(r)
	}
	return "keep:" + strings.Join(strs, ",")
}

// combinationsIdx returns every k-combination of indices [0,n), each as a
// sorted slice of indices into a size-n pool.
func combinationsIdx(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	var out [][]int
	for {
		out = append(out, append([]int(nil), idx...))
		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
