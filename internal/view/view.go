// Package view rotates and masks a full coup.State into what one player
// is actually allowed to see: seats renumbered so the acting player is
// index 0, every other seat's hidden cards blanked, and player-id fields
// inside the phase info rotated to match.
package view

import (
	"regexp"
	"strconv"

	"github.com/coupengine/coup/pkg/coup"
)

// maskedRole is the placeholder an opponent's hidden card is replaced
// with. The count of entries is preserved so an observer can still see
// how many cards an opponent holds, just not which ones.
const maskedRole = coup.Role("hidden")

// PlayerView is one seat's state as a particular observer sees it:
// identical to coup.PlayerState for the observer's own seat, with Hidden
// blanked for every other seat.
type PlayerView struct {
	Cash     int               `json:"cash"`
	Hidden   []coup.Role       `json:"hidden"`
	Revealed []coup.Role       `json:"revealed"`
	Trace    []coup.TraceEvent `json:"trace"`
}

// AgentState is what gets handed to an external agent: rotated phase info
// plus per-seat views. It deliberately has no Dealer field — deck
// composition is information no real player has.
type AgentState struct {
	Game    coup.GameInfo `json:"game"`
	Players []PlayerView  `json:"players"`
}

// RotateAndMask builds the AgentState for whichever seat is named by
// s.Game.PlayerToAct. At game_over the full, unrotated, unmasked state is
// returned — once the game has ended there is nothing left to hide.
//
// This is what pkg/cuci hands to the agent whose turn it actually is. For
// pushing a view to every other connected seat, including ones not
// currently acting, use RotateAndMaskFor instead.
func RotateAndMask(s coup.State) AgentState {
	return RotateAndMaskFor(s, s.Game.PlayerToAct)
}

// RotateAndMaskFor builds the AgentState as seen by observerSeat, whether
// or not that seat is the one currently acting. A match broadcasts a
// separate RotateAndMaskFor result to each connected seat so nobody's
// websocket feed ever carries another player's hidden cards.
func RotateAndMaskFor(s coup.State, observerSeat int) AgentState {
	if s.Game.Phase == coup.PhaseGameOver {
		players := make([]PlayerView, len(s.Players))
		for i, p := range s.Players {
			players[i] = fullPlayerView(p)
		}
		return AgentState{Game: s.Game, Players: players}
	}

	n := len(s.Players)
	players := make([]PlayerView, n)
	for rel := 0; rel < n; rel++ {
		abs := mod(rel+observerSeat, n)
		if rel == 0 {
			players[rel] = fullPlayerView(s.Players[abs])
		} else {
			players[rel] = maskedPlayerView(s.Players[abs])
		}
	}
	game := rotateGameInfo(s.Game, observerSeat, n)
	if observerSeat != s.Game.PlayerToAct {
		game.DrawnRoles = nil
	}
	return AgentState{
		Game:    game,
		Players: players,
	}
}

func fullPlayerView(p coup.PlayerState) PlayerView {
	return PlayerView{
		Cash:     p.Cash,
		Hidden:   append([]coup.Role(nil), p.Hidden...),
		Revealed: append([]coup.Role(nil), p.Revealed...),
		Trace:    append([]coup.TraceEvent(nil), p.Trace...),
	}
}

func maskedPlayerView(p coup.PlayerState) PlayerView {
	masked := make([]coup.Role, len(p.Hidden))
	for i := range masked {
		masked[i] = maskedRole
	}
	return PlayerView{
		Cash:     p.Cash,
		Hidden:   masked,
		Revealed: append([]coup.Role(nil), p.Revealed...),
		Trace:    append([]coup.TraceEvent(nil), p.Trace...),
	}
}

// rotateGameInfo remaps every player-id-valued field (whose_turn,
// player_to_act, target_player, blocking_player) into the acting player's
// relative frame. winning_player, action, blocked_with, and drawn_roles
// are not player ids and pass through unchanged here; RotateAndMaskFor is
// responsible for blanking drawn_roles for every observer but the actor.
func rotateGameInfo(g coup.GameInfo, actingPlayer, n int) coup.GameInfo {
	out := g
	out.WhoseTurn = mod(g.WhoseTurn-actingPlayer, n)
	out.PlayerToAct = mod(g.PlayerToAct-actingPlayer, n)
	if g.TargetPlayer != nil {
		v := mod(*g.TargetPlayer-actingPlayer, n)
		out.TargetPlayer = &v
	}
	if g.BlockingPlayer != nil {
		v := mod(*g.BlockingPlayer-actingPlayer, n)
		out.BlockingPlayer = &v
	}
	return out
}

func mod(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}

var targetDigits = regexp.MustCompile(`\d+`)

// RotateAction rewrites the first run of digits in a legal-action string
// (a target player id) from absolute into the acting player's relative
// frame, for presenting Game.LegalActions to an agent.
func RotateAction(action string, actingPlayer, numPlayers int) string {
	return mapActionTarget(action, actingPlayer, numPlayers)
}

// UnrotateAction reverses RotateAction, turning a relative target id an
// agent submitted back into the absolute id Game.Play expects.
func UnrotateAction(action string, actingPlayer, numPlayers int) string {
	return mapActionTarget(action, -actingPlayer, numPlayers)
}

func mapActionTarget(action string, playerID, numPlayers int) string {
	loc := targetDigits.FindStringIndex(action)
	if loc == nil {
		return action
	}
	target, err := strconv.Atoi(action[loc[0]:loc[1]])
	if err != nil {
		return action
	}
	rotated := mod(target-playerID, numPlayers)
	return action[:loc[0]] + strconv.Itoa(rotated) + action[loc[1]:]
}
