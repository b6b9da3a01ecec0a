package coup

// StartingCash is the cash balance every player begins the game with.
const StartingCash = 2

// Player holds one seat's cash, hidden and revealed influences, and its
// public trace of claims, reveals, and exchanges.
type Player struct {
	Cash     int
	Hidden   []Role
	Revealed []Role
	Trace    []TraceEvent
}

func newPlayer(dealt []Role) *Player {
	return &Player{
		Cash:   StartingCash,
		Hidden: dealt,
	}
}

// Alive reports whether the player still holds at least one influence.
func (p *Player) Alive() bool {
	return len(p.Hidden) > 0
}

// HasRole reports whether the player's hidden influences include r.
func (p *Player) HasRole(r Role) bool {
	for _, h := range p.Hidden {
		if h == r {
			return true
		}
	}
	return false
}

// removeHidden removes one copy of r from hidden, panicking with a Fault
// if the player does not hold it — callers must validate with HasRole
// (or an equivalent check) first.
func (p *Player) removeHidden(r Role) {
	for i, h := range p.Hidden {
		if h == r {
			p.Hidden = append(p.Hidden[:i], p.Hidden[i+1:]...)
			return
		}
	}
	panic(faultf("player does not hold role %s", r))
}

// reveal moves one copy of r from hidden to revealed.
func (p *Player) reveal(r Role) {
	p.removeHidden(r)
	p.Revealed = append(p.Revealed, r)
}

// swap removes one copy of old from hidden and appends replacement.
func (p *Player) swap(old Role, replacement Role) {
	p.removeHidden(old)
	p.Hidden = append(p.Hidden, replacement)
}

func (p *Player) recordClaim(r Role) {
	p.Trace = append(p.Trace, TraceEvent{Type: EventClaim, Role: r})
}

func (p *Player) recordReveal(r Role) {
	p.Trace = append(p.Trace, TraceEvent{Type: EventReveal, Role: r})
}

func (p *Player) recordLostChallenge(r Role) {
	p.Trace = append(p.Trace, TraceEvent{Type: EventLostChallenge, Role: r})
}

func (p *Player) recordExchange() {
	p.Trace = append(p.Trace, TraceEvent{Type: EventExchange})
}

// addCash credits the player's balance.
func (p *Player) addCash(n int) {
	p.Cash += n
}

// deductCash debits up to n from the player's balance, clamped at 0, and
// returns the amount actually deducted.
func (p *Player) deductCash(n int) int {
	if n > p.Cash {
		n = p.Cash
	}
	p.Cash -= n
	return n
}

// canAfford reports whether the player's cash covers cost.
func (p *Player) canAfford(cost int) bool {
	return p.Cash >= cost
}
