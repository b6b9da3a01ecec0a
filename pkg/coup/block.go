package coup

import (
	"sort"
	"strings"
)

// blockParent receives the outcome of a resolved block: whether the
// original action is allowed to proceed (true) or was stopped (false).
type blockParent interface {
	resolveBlock(allowed bool)
}

// block polls for a block claim. For a targeted action (steal, assassinate)
// only the target may respond. For foreign aid, every other living player
// is polled in turn order and may claim Duke; if more than one does, the
// dealer arbitrates which claim is actually challenged.
type block struct {
	game        *Game
	parent      blockParent
	actor       int
	roles       []Role
	soleBlocker *int
	current     int
	responses   map[int]Role // playerID -> claimed role; absent means passed
	ch          *challenge
}

func newBlock(g *Game, parent blockParent, actor int, roles []Role, soleBlocker *int) *block {
	b := &block{
		game:        g,
		parent:      parent,
		actor:       actor,
		roles:       roles,
		soleBlocker: soleBlocker,
		responses:   map[int]Role{},
	}
	if soleBlocker != nil {
		b.current = *soleBlocker
	} else {
		b.current = g.nextLivingPlayer(actor)
	}
	return b
}

func (b *block) playerToAct() int {
	if b.ch != nil {
		return b.ch.playerToAct()
	}
	return b.current
}

func (b *block) play(s string) error {
	if b.ch != nil {
		return b.ch.play(s)
	}
	if s == Pass {
		// leave b.responses[b.current] unset: absence means passed
	} else if rest, ok := strings.CutPrefix(s, "block:"); ok {
		role := Role(rest)
		if !roleIn(b.roles, role) {
			return illegalf("block claim %q is not available for this action", s)
		}
		b.responses[b.current] = role
	} else {
		return illegalf("expected pass or block:<role>, got %q", s)
	}
	if b.soleBlocker != nil {
		b.executeBlock()
		return nil
	}
	next := b.game.nextLivingPlayer(b.current)
	if next == b.actor {
		b.executeBlock()
	} else {
		b.current = next
	}
	return nil
}

func (b *block) executeBlock() {
	var blockers []int
	for pid := range b.responses {
		blockers = append(blockers, pid)
	}
	if len(blockers) == 0 {
		b.parent.resolveBlock(true)
		return
	}
	sort.Ints(blockers)
	chosen := blockers[0]
	if len(blockers) > 1 {
		chosen = b.game.deck.Choose(blockers)
	}
	role := b.responses[chosen]
	b.ch = newChallenge(b.game, b, chosen, role)
}

// resolveChallenge implements challengeParent: the block's own claim was
// itself challenged.
func (b *block) resolveChallenge(blockClaimAllowed bool) {
	b.ch = nil
	b.parent.resolveBlock(!blockClaimAllowed)
}

func (b *block) legalActions() []string {
	if b.ch != nil {
		return b.ch.legalActions()
	}
	out := make([]string, 0, len(b.roles)+1)
	out = append(out, Pass)
	for _, r := range b.roles {
		out = append(out, "block:"+string(r))
	}
	sort.Strings(out)
	return out
}

func (b *block) augmentState(info *GameInfo) {
	if b.ch != nil {
		info.Phase = PhaseAwaitingBlockChallenge
		info.BlockedWith = b.ch.role
		blocker := b.ch.challenged
		info.BlockingPlayer = &blocker
		b.ch.augmentState(info)
	}
}

func roleIn(roles []Role, r Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
