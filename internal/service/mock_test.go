package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/coupengine/coup/internal/model"
)

// mockMatchRepo is an in-memory repository.MatchRepository for unit tests.
type mockMatchRepo struct {
	matches map[string]*model.Match
	players map[string][]model.MatchPlayer
	nextID  int
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{
		matches: make(map[string]*model.Match),
		players: make(map[string][]model.MatchPlayer),
	}
}

func (m *mockMatchRepo) Create(ctx context.Context, name, creatorID string, numSeats int, rngSeed int64) (*model.Match, error) {
	m.nextID++
	id := "match-" + strconv.Itoa(m.nextID)
	match := &model.Match{
		ID:        id,
		Name:      name,
		CreatorID: creatorID,
		Status:    "waiting",
		NumSeats:  numSeats,
		RNGSeed:   rngSeed,
		CreatedAt: time.Now(),
	}
	m.matches[id] = match
	return match, nil
}

func (m *mockMatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	match, ok := m.matches[id]
	if !ok {
		return nil, nil
	}
	cp := *match
	cp.Players = append([]model.MatchPlayer(nil), m.players[id]...)
	return &cp, nil
}

func (m *mockMatchRepo) ListOpen(ctx context.Context) ([]model.Match, error) {
	return m.listByStatus("waiting"), nil
}

func (m *mockMatchRepo) ListByUser(ctx context.Context, userID string) ([]model.Match, error) {
	var out []model.Match
	for id, match := range m.matches {
		if match.CreatorID == userID {
			out = append(out, *match)
			continue
		}
		for _, p := range m.players[id] {
			if p.UserID == userID {
				out = append(out, *match)
				break
			}
		}
	}
	return out, nil
}

func (m *mockMatchRepo) ListFinished(ctx context.Context) ([]model.Match, error) {
	return m.listByStatus("finished"), nil
}

func (m *mockMatchRepo) ListActive(ctx context.Context) ([]model.Match, error) {
	return m.listByStatus("active"), nil
}

func (m *mockMatchRepo) listByStatus(status string) []model.Match {
	var out []model.Match
	for _, match := range m.matches {
		if match.Status == status {
			out = append(out, *match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockMatchRepo) JoinMatch(ctx context.Context, matchID, userID string, seat int) error {
	m.players[matchID] = append(m.players[matchID], model.MatchPlayer{
		MatchID: matchID, UserID: userID, Seat: seat, JoinedAt: time.Now(),
	})
	return nil
}

func (m *mockMatchRepo) JoinMatchAsBot(ctx context.Context, matchID, userID, difficulty string, seat int) error {
	m.players[matchID] = append(m.players[matchID], model.MatchPlayer{
		MatchID: matchID, UserID: userID, Seat: seat, IsBot: true, BotDifficulty: difficulty, JoinedAt: time.Now(),
	})
	return nil
}

func (m *mockMatchRepo) PlayerCount(ctx context.Context, matchID string) (int, error) {
	return len(m.players[matchID]), nil
}

func (m *mockMatchRepo) SetStarted(ctx context.Context, matchID string) error {
	m.matches[matchID].Status = "active"
	return nil
}

func (m *mockMatchRepo) SetFinished(ctx context.Context, matchID string, winnerSeat int) error {
	m.matches[matchID].Status = "finished"
	m.matches[matchID].WinnerSeat = &winnerSeat
	return nil
}

func (m *mockMatchRepo) Delete(ctx context.Context, matchID string) error {
	delete(m.matches, matchID)
	delete(m.players, matchID)
	return nil
}

// mockUserRepo is an in-memory repository.UserRepository for unit tests.
type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error) {
	for _, u := range m.users {
		if u.Provider == provider && u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	if existing, _ := m.FindByProviderID(ctx, provider, providerID); existing != nil {
		existing.DisplayName = displayName
		existing.AvatarURL = avatarURL
		return existing, nil
	}
	m.nextID++
	u := &model.User{
		ID: "user-" + strconv.Itoa(m.nextID), Provider: provider, ProviderID: providerID,
		DisplayName: displayName, AvatarURL: avatarURL, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	if u, ok := m.users[id]; ok {
		u.DisplayName = displayName
	}
	return nil
}

// mockEventRepo is an in-memory repository.EventRepository for unit tests.
type mockEventRepo struct {
	events map[string][]model.MatchEvent
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string][]model.MatchEvent)}
}

func (m *mockEventRepo) CreateEvent(ctx context.Context, matchID string, sequence, actorSeat int, action, phase string, stateAfter json.RawMessage) (*model.MatchEvent, error) {
	ev := model.MatchEvent{
		MatchID: matchID, Sequence: sequence, ActorSeat: actorSeat,
		Action: action, Phase: phase, StateAfter: stateAfter, CreatedAt: time.Now(),
	}
	m.events[matchID] = append(m.events[matchID], ev)
	return &ev, nil
}

func (m *mockEventRepo) ListEvents(ctx context.Context, matchID string) ([]model.MatchEvent, error) {
	return append([]model.MatchEvent(nil), m.events[matchID]...), nil
}

func (m *mockEventRepo) LatestEvent(ctx context.Context, matchID string) (*model.MatchEvent, error) {
	events := m.events[matchID]
	if len(events) == 0 {
		return nil, nil
	}
	ev := events[len(events)-1]
	return &ev, nil
}

// mockMatchCache is an in-memory repository.MatchCache for unit tests.
type mockMatchCache struct {
	state        map[string]json.RawMessage
	deadlines    map[string]time.Time
	matchmaking  map[int][]string
}

func newMockMatchCache() *mockMatchCache {
	return &mockMatchCache{
		state:       make(map[string]json.RawMessage),
		deadlines:   make(map[string]time.Time),
		matchmaking: make(map[int][]string),
	}
}

func (m *mockMatchCache) SetMatchState(ctx context.Context, matchID string, state json.RawMessage) error {
	m.state[matchID] = state
	return nil
}

func (m *mockMatchCache) GetMatchState(ctx context.Context, matchID string) (json.RawMessage, error) {
	return m.state[matchID], nil
}

func (m *mockMatchCache) DeleteMatchState(ctx context.Context, matchID string) error {
	delete(m.state, matchID)
	return nil
}

func (m *mockMatchCache) EnqueueMatchmaking(ctx context.Context, userID string, numSeats int) error {
	m.matchmaking[numSeats] = append(m.matchmaking[numSeats], userID)
	return nil
}

func (m *mockMatchCache) DequeueMatchmaking(ctx context.Context, numSeats int) ([]string, error) {
	queue := m.matchmaking[numSeats]
	if len(queue) < numSeats {
		return nil, nil
	}
	popped := append([]string(nil), queue[:numSeats]...)
	m.matchmaking[numSeats] = queue[numSeats:]
	return popped, nil
}

func (m *mockMatchCache) QueueLength(ctx context.Context, numSeats int) (int64, error) {
	return int64(len(m.matchmaking[numSeats])), nil
}

func (m *mockMatchCache) SetTurnDeadline(ctx context.Context, matchID string, deadline time.Time) error {
	m.deadlines[matchID] = deadline
	return nil
}

func (m *mockMatchCache) ClearTurnDeadline(ctx context.Context, matchID string) error {
	delete(m.deadlines, matchID)
	return nil
}

func (m *mockMatchCache) TurnDeadlinePassed(ctx context.Context, matchID string) (bool, error) {
	deadline, ok := m.deadlines[matchID]
	if !ok {
		return true, nil
	}
	return time.Now().After(deadline), nil
}
