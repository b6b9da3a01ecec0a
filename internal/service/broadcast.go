package service

// Broadcaster sends real-time events to connected clients. Implemented by
// the WebSocket hub. Unlike a Diplomacy phase, where every subscriber of a
// game sees the same order/resolution payload, a Coup match's players
// each hold different hidden information, so match events are broadcast
// per seat rather than identically to every subscriber.
type Broadcaster interface {
	BroadcastMatchEventForSeat(matchID string, seat int, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastMatchEventForSeat(string, int, string, any) {}
