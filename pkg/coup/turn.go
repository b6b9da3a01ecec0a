package coup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// turn owns one player's turn from start_of_turn through whatever action
// resolver chain that player's initial action spawns, until it ends in
// Game.endTurn.
type turn struct {
	game   *Game
	player int
	action *action
}

func newTurn(g *Game, player int) *turn {
	return &turn{game: g, player: player}
}

func (t *turn) playerToAct() int {
	if t.action != nil {
		return t.action.playerToAct()
	}
	return t.player
}

func (t *turn) play(s string) error {
	if t.action != nil {
		return t.action.play(s)
	}
	return t.playInitial(s)
}

func (t *turn) playInitial(s string) error {
	name, target, err := parseInitialAction(s, len(t.game.players))
	if err != nil {
		return err
	}

	targeted := isTargetedAction(name)
	if targeted && target == nil {
		return illegalf("action %s requires a target player", name)
	}
	if !targeted && target != nil {
		return illegalf("action %s does not take a target", name)
	}
	if target != nil {
		if *target == t.player {
			return illegalf("cannot target yourself")
		}
		if !t.game.players[*target].Alive() {
			return illegalf("target player %d is not alive", *target)
		}
	}

	actor := t.game.players[t.player]
	if actor.Cash >= 10 && name != Coup {
		return illegalf("player has %d cash and must coup", actor.Cash)
	}
	if !actor.canAfford(actionCost(name)) {
		return illegalf("cannot afford %s (cost %d, have %d)", name, actionCost(name), actor.Cash)
	}

	if name == Income {
		t.game.addCash(t.player, 1)
		t.game.endTurn()
		return nil
	}

	t.action = newAction(t.game, name, t.player, target)
	return nil
}

func (t *turn) legalActions() []string {
	if t.action != nil {
		return t.action.legalActions()
	}
	actor := t.game.players[t.player]
	var out []string
	if actor.Cash >= 10 {
		for p := range t.game.players {
			if p != t.player && t.game.players[p].Alive() {
				out = append(out, fmt.Sprintf("%s:%d", Coup, p))
			}
		}
		sort.Strings(out)
		return out
	}
	for _, a := range untargetedActions {
		if actor.canAfford(actionCost(a)) {
			out = append(out, string(a))
		}
	}
	for _, a := range targetedActions {
		if !actor.canAfford(actionCost(a)) {
			continue
		}
		for p := range t.game.players {
			if p != t.player && t.game.players[p].Alive() {
				out = append(out, fmt.Sprintf("%s:%d", a, p))
			}
		}
	}
	sort.Strings(out)
	return out
}

func (t *turn) state() GameInfo {
	info := GameInfo{Phase: PhaseStartOfTurn, WhoseTurn: t.player, PlayerToAct: t.playerToAct()}
	if t.action != nil {
		t.action.augmentState(&info)
	}
	return info
}

func isTargetedAction(name ActionName) bool {
	for _, a := range targetedActions {
		if a == name {
			return true
		}
	}
	return false
}

func isKnownAction(name ActionName) bool {
	for _, a := range untargetedActions {
		if a == name {
			return true
		}
	}
	return isTargetedAction(name)
}

func parseInitialAction(s string, numPlayers int) (ActionName, *int, error) {
	parts := strings.SplitN(s, ":", 2)
	name := ActionName(parts[0])
	if !isKnownAction(name) {
		return "", nil, illegalf("unknown action %q", s)
	}
	if len(parts) == 1 {
		return name, nil, nil
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return "", nil, illegalf("invalid target player in %q", s)
	}
	if idx >= numPlayers {
		return "", nil, illegalf("unknown target player %d in %q", idx, s)
	}
	return name, &idx, nil
}
