package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coupengine/coup/internal/auth"
	"github.com/coupengine/coup/internal/model"
	"github.com/coupengine/coup/internal/service"
)

// Client is an HTTP client for a single agent process: one registered
// user, one bearer token, talking to the match API over plain REST. It
// deliberately has no websocket leg — an agent that can't hold a
// connection open polls /matches/{id}/view instead, the same state a
// subscriber would get pushed.
type Client struct {
	name    string
	baseURL string
	token   string
	userID  string
	httpC   *http.Client
}

// NewClient creates a new agent client targeting the given server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the agent name.
func (c *Client) Name() string { return c.name }

// UserID returns the agent's user ID after Register.
func (c *Client) UserID() string { return c.userID }

// Register upserts this agent's account and stores the access token for
// subsequent requests.
func (c *Client) Register() error {
	var tokens auth.TokenPair
	if err := c.postJSONInto("/auth/register", map[string]string{"name": c.name}, &tokens); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	c.token = tokens.AccessToken

	var user model.User
	if err := c.getJSONInto("/api/v1/users/me", &user); err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	c.userID = user.ID
	log.Debug().Str("agent", c.name).Str("userId", c.userID).Msg("Agent registered")
	return nil
}

// CreateMatch creates a new match and returns it.
func (c *Client) CreateMatch(name string, numSeats int) (*model.Match, error) {
	var match model.Match
	body := map[string]any{"name": name, "num_seats": numSeats}
	if err := c.postJSONInto("/api/v1/matches", body, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// JoinMatch joins an existing match.
func (c *Client) JoinMatch(matchID string) (*model.Match, error) {
	var match model.Match
	if err := c.postJSONInto("/api/v1/matches/"+matchID+"/join", nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// StartMatch starts a match (creator only).
func (c *Client) StartMatch(matchID string) (*model.Match, error) {
	var match model.Match
	if err := c.postJSONInto("/api/v1/matches/"+matchID+"/start", nil, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatch fetches match details, including the seat roster.
func (c *Client) GetMatch(matchID string) (*model.Match, error) {
	var match model.Match
	if err := c.getJSONInto("/api/v1/matches/"+matchID, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetView fetches this agent's own rotated, masked view of matchID, plus
// its legal actions when it is the seat to act.
func (c *Client) GetView(matchID string) (*service.SeatView, error) {
	var seatView service.SeatView
	if err := c.getJSONInto("/api/v1/matches/"+matchID+"/view", &seatView); err != nil {
		return nil, err
	}
	return &seatView, nil
}

// SubmitAction submits action, in this agent's own relative frame (as
// returned in SeatView.LegalActions), as its move for the current turn.
func (c *Client) SubmitAction(matchID, action string) error {
	body := map[string]string{"action": action}
	return c.postJSON("/api/v1/matches/"+matchID+"/actions", body)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) getJSONInto(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) postJSON(path string, payload any) error {
	return c.postJSONInto(path, payload, nil)
}

func (c *Client) postJSONInto(path string, payload any, out any) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
