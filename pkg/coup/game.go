package coup

// Game is a single Coup match: 2-6 players, a shared deck, and the state
// machine for the player currently on turn. A Game is not safe for
// concurrent use; callers serialize access to Play/LegalActions/State.
type Game struct {
	deck     *Deck
	players  []*Player
	turn     *turn
	gameOver bool
	winner   int
}

// NewGame deals two cards to each of numPlayers seats from a deck shuffled
// with rng, and starts the turn at seat 0.
func NewGame(numPlayers int, rng RNG) *Game {
	if numPlayers < 2 || numPlayers > 6 {
		panic(faultf("numPlayers must be between 2 and 6, got %d", numPlayers))
	}
	g := &Game{deck: NewDeck(rng)}
	g.players = make([]*Player, numPlayers)
	for i := range g.players {
		g.players[i] = newPlayer(g.deck.Deal(2))
	}
	g.turn = newTurn(g, 0)
	return g
}

// Play applies action, taken by whichever seat Game.PlayerToAct names, to
// the game. It returns an *IllegalAction, leaving the game unchanged, if
// action is malformed or not currently legal. An invariant violation
// (including playing after game over) panics with a *Fault, after which
// the Game must not be used further.
func (g *Game) Play(action string) error {
	if g.gameOver {
		panic(faultf("cannot play %q: game is already over", action))
	}
	if err := g.turn.play(action); err != nil {
		return err
	}
	if !g.gameOver {
		pid := g.turn.playerToAct()
		if !g.players[pid].Alive() {
			panic(faultf("player to act (%d) is not alive", pid))
		}
	}
	return nil
}

// LegalActions lists every action string Play would currently accept,
// sorted, for whichever seat Game.PlayerToAct names. It is empty iff the
// game is over.
func (g *Game) LegalActions() []string {
	if g.gameOver {
		return nil
	}
	return g.turn.legalActions()
}

// PlayerToAct returns the seat whose action is expected next, and false if
// the game is over.
func (g *Game) PlayerToAct() (int, bool) {
	if g.gameOver {
		return 0, false
	}
	return g.turn.playerToAct(), true
}

// IsOver reports whether the game has reached a single surviving player.
func (g *Game) IsOver() bool {
	return g.gameOver
}

// NumPlayers returns the number of seats the game was created with (some
// may no longer be alive).
func (g *Game) NumPlayers() int {
	return len(g.players)
}

// State returns a full, perfect-information snapshot of the game.
func (g *Game) State() State {
	s := State{
		Players: make([]PlayerState, len(g.players)),
		Dealer:  DealerState{Deck: g.deck.Cards()},
	}
	for i, p := range g.players {
		s.Players[i] = PlayerState{
			Cash:     p.Cash,
			Hidden:   append([]Role(nil), p.Hidden...),
			Revealed: append([]Role(nil), p.Revealed...),
			Trace:    append([]TraceEvent(nil), p.Trace...),
		}
	}
	if g.gameOver {
		w := g.winner
		s.Game = GameInfo{Phase: PhaseGameOver, WhoseTurn: -1, PlayerToAct: -1, WinningPlayer: &w}
		return s
	}
	s.Game = g.turn.state()
	return s
}

func (g *Game) addCash(pid, amount int) {
	g.players[pid].addCash(amount)
}

func (g *Game) deductCash(pid, amount int) int {
	return g.players[pid].deductCash(amount)
}

// revealRole moves one of pid's hidden roles to revealed, losing that
// influence, and ends the game if pid's elimination leaves one survivor.
func (g *Game) revealRole(pid int, role Role) {
	g.players[pid].reveal(role)
	alive := 0
	last := -1
	for i, p := range g.players {
		if p.Alive() {
			alive++
			last = i
		}
	}
	if alive == 1 {
		g.gameOver = true
		g.winner = last
	}
}

// replaceRole returns a successfully proved challenge claim to the deck and
// deals the claimant a fresh replacement card.
func (g *Game) replaceRole(pid int, role Role) {
	g.deck.Return([]Role{role})
	fresh := g.deck.Deal(1)[0]
	g.players[pid].swap(role, fresh)
}

// replaceAllRoles sets pid's hidden hand to kept and returns discarded to
// the deck. Used by exchange's choose_new_roles step.
func (g *Game) replaceAllRoles(pid int, kept []Role, discarded []Role) {
	g.players[pid].Hidden = append([]Role(nil), kept...)
	g.deck.Return(discarded)
}

// endTurn advances the turn to the next living player after whoever just
// acted, unless the game has already ended.
func (g *Game) endTurn() {
	if g.gameOver {
		return
	}
	next := g.nextLivingPlayer(g.turn.player)
	g.turn = newTurn(g, next)
}

// nextLivingPlayer returns the next seat after from, wrapping around the
// table, that still holds at least one influence. It panics if from is the
// only living player left, which callers must have already ruled out via
// IsOver.
func (g *Game) nextLivingPlayer(from int) int {
	n := len(g.players)
	next := from
	for {
		next = (next + 1) % n
		if next == from {
			panic(faultf("no living player after seat %d", from))
		}
		if g.players[next].Alive() {
			return next
		}
	}
}
