package coup

// challengeParent receives the outcome of a resolved challenge: whether the
// claim is allowed to stand (true) or was disproved (false).
type challengeParent interface {
	resolveChallenge(allowed bool)
}

// challenge polls every other living player, in turn order starting after
// the claimant, for pass/challenge. If nobody challenges the claim stands.
// If one or more challenge, the claimant must reveal: telling the truth
// swaps the card and cascades the reveal to every player who challenged (in
// turn order, each losing a card in turn); lying costs the claimant the
// card outright and the claim is disproved.
type challenge struct {
	game       *Game
	parent     challengeParent
	challenged int
	role       Role
	current    int
	responses  map[int]bool // playerID -> challenged(true)/passed(false)
	rv         *reveal
	revealer   int
	correct    *bool
}

func newChallenge(g *Game, parent challengeParent, challenged int, role Role) *challenge {
	g.players[challenged].recordClaim(role)
	return &challenge{
		game:       g,
		parent:     parent,
		challenged: challenged,
		role:       role,
		current:    g.nextLivingPlayer(challenged),
		responses:  map[int]bool{},
	}
}

func (c *challenge) playerToAct() int {
	if c.rv != nil {
		return c.rv.playerToAct()
	}
	return c.current
}

func (c *challenge) play(s string) error {
	if c.rv != nil {
		return c.rv.play(s)
	}
	switch s {
	case Pass:
		c.responses[c.current] = false
	case Challenge:
		c.responses[c.current] = true
	default:
		return illegalf("expected pass or challenge, got %q", s)
	}
	next := c.game.nextLivingPlayer(c.current)
	if next != c.challenged {
		c.current = next
		return nil
	}
	anyChallenged := false
	for _, challenged := range c.responses {
		if challenged {
			anyChallenged = true
			break
		}
	}
	if !anyChallenged {
		c.parent.resolveChallenge(true)
		return nil
	}
	c.beginReveal(c.challenged, PhaseProveChallenge)
	return nil
}

func (c *challenge) legalActions() []string {
	if c.rv != nil {
		return c.rv.legalActions()
	}
	return []string{Challenge, Pass}
}

func (c *challenge) augmentState(info *GameInfo) {
	if c.rv != nil {
		c.rv.augmentState(info)
	}
}

func (c *challenge) beginReveal(player int, phase string) {
	c.revealer = player
	c.rv = &reveal{game: c.game, player: player, phaseName: phase, parent: c}
}

// afterReveal implements revealParent. The first reveal is always the
// claimant proving (or failing to prove) the challenged claim; every
// subsequent reveal is a player who guessed wrong paying for it.
func (c *challenge) afterReveal(role Role) {
	if c.correct == nil {
		correct := role != c.role
		c.correct = &correct
		c.rv = nil
		if correct {
			c.game.revealRole(c.challenged, role)
			c.parent.resolveChallenge(false)
			return
		}
		c.game.replaceRole(c.challenged, role)
		c.revealNextChallenger(c.challenged)
		return
	}
	c.game.revealRole(c.revealer, role)
	c.rv = nil
	c.revealNextChallenger(c.revealer)
}

// revealNextChallenger walks the table starting after from, looking for the
// next player who answered CHALLENGE and has not yet paid for it. Reaching
// back around to the claimant means every wrong challenger has revealed.
func (c *challenge) revealNextChallenger(from int) {
	pid := from
	for {
		pid = c.game.nextLivingPlayer(pid)
		if pid == c.challenged {
			c.parent.resolveChallenge(true)
			return
		}
		if c.responses[pid] {
			c.beginReveal(pid, PhaseIncorrectChallenge)
			return
		}
	}
}
