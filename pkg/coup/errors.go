package coup

import "fmt"

// IllegalAction is returned for any malformed or disallowed player-supplied
// action string. It leaves game state unchanged — callers may retry with a
// different action.
type IllegalAction struct {
	Message string
}

func (e *IllegalAction) Error() string {
	return e.Message
}

func illegalf(format string, args ...any) *IllegalAction {
	return &IllegalAction{Message: fmt.Sprintf(format, args...)}
}

// Fault signals an invariant violation: a programming fault rather than a
// recoverable player error (dealer underflow, advancing to a dead player,
// playing after game_over, an inconsistent challenge cascade). The game
// object should be treated as unusable after a Fault.
type Fault struct {
	Msg string
}

func (e *Fault) Error() string {
	return "coup: invariant violation: " + e.Msg
}

func faultf(format string, args ...any) *Fault {
	return &Fault{Msg: fmt.Sprintf(format, args...)}
}
