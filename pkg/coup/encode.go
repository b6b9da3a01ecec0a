package coup

import (
	"fmt"
	"strings"
)

// EncodeTargetedAction formats a targeted initial action against pid.
func EncodeTargetedAction(name ActionName, pid int) string {
	return fmt.Sprintf("%s:%d", name, pid)
}

// EncodeBlock formats a block claim of role.
func EncodeBlock(role Role) string {
	return "block:" + string(role)
}

// EncodeReveal formats a forced reveal of role.
func EncodeReveal(role Role) string {
	return "reveal:" + string(role)
}

// EncodeKeep formats an exchange keep choice. Roles are sorted, with
// repeated roles kept (e.g. keep:assassin,assassin), so the result always
// matches the token Game.LegalActions would offer for the same multiset of
// kept roles.
func EncodeKeep(roles []Role) string {
	return canonicalKeepToken(roles)
}

// DecodeAction splits a wire action string into its bare name and, for
// targeted/qualified actions, the string payload after the colon. It
// performs no validation against game state; use it for logging/tracing a
// raw action string, not for driving play.
func DecodeAction(s string) (name string, payload string, hasPayload bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) == 1 {
		return parts[0], "", false
	}
	return parts[0], parts[1], true
}
