// Command smoke drives a running slide puzzle server through its REST
// surface end to end: session creation, legal and illegal clicks, bulk click
// truncation, restart, the advance guard, difficulty switching, history
// paging, and deletion. It plays no strategy; the point is to catch wiring
// regressions with the server treated as a black box.
//
// Run it against a live server:
//
//	go run . -url http://localhost:8080 -config easy
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

type GameState struct {
	Board       []int  `json:"board"`
	GridSize    int    `json:"grid_size"`
	EmptyIndex  int    `json:"empty_index"`
	Moves       int    `json:"moves"`
	Phase       string `json:"phase"`
	Solved      bool   `json:"solved"`
	Message     string `json:"message"`
	ConfigName  string `json:"config_name"`
	TotalClicks int    `json:"total_clicks"`
}

type SessionResponse struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	GameState  *GameState `json:"game_state"`
}

type ClickResponse struct {
	Accepted  bool       `json:"accepted"`
	GameState *GameState `json:"game_state"`
	Message   string     `json:"message"`
	Rejected  *struct {
		Reason string `json:"reason"`
	} `json:"rejected,omitempty"`
}

type BulkResponse struct {
	ClicksExecuted  int        `json:"clicks_executed"`
	ClicksAccepted  int        `json:"clicks_accepted"`
	RequestedClicks int        `json:"requested_clicks"`
	Truncated       bool       `json:"truncated,omitempty"`
	Limit           int        `json:"limit,omitempty"`
	StopReasonCode  string     `json:"stop_reason_code"`
	GameState       *GameState `json:"game_state"`
}

type StateEnvelope struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

type HistoryResponse struct {
	TotalClicks int `json:"total_clicks"`
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
}

type ConfigInfo struct {
	Name     string `json:"name"`
	GridSize int    `json:"grid_size"`
}

// Client wraps the REST endpoints for one probe session.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends a request with an optional JSON payload and decodes the JSON
// answer into out. It returns the HTTP status so callers can assert on it.
func (c *Client) do(method, path string, payload, out interface{}) (int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("parse %s response: %v (body: %s)", path, err, string(body))
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) Health() error {
	var health struct {
		Status string `json:"status"`
	}
	status, err := c.do(http.MethodGet, "/api/health", nil, &health)
	if err != nil {
		return err
	}
	if status != http.StatusOK || health.Status != "healthy" {
		return fmt.Errorf("unexpected health answer: %d %q", status, health.Status)
	}
	return nil
}

func (c *Client) ListConfigs() ([]ConfigInfo, error) {
	var configs []ConfigInfo
	status, err := c.do(http.MethodGet, "/api/configs", nil, &configs)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list configs: status %d", status)
	}
	return configs, nil
}

func (c *Client) CreateSession(configID string) (*GameState, error) {
	var session SessionResponse
	status, err := c.do(http.MethodPost, "/api/sessions",
		map[string]string{"config_id": configID}, &session)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create session: status %d", status)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("create session: empty session ID")
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, int, error) {
	var state GameState
	status, err := c.do(http.MethodGet, "/api/sessions/"+c.sessionID+"/state", nil, &state)
	if err != nil {
		return nil, status, err
	}
	return &state, status, nil
}

func (c *Client) Click(index int) (*ClickResponse, error) {
	var result ClickResponse
	status, err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/click",
		map[string]int{"index": index}, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("click: status %d", status)
	}
	return &result, nil
}

func (c *Client) BulkClick(indexes []int) (*BulkResponse, error) {
	var result BulkResponse
	status, err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/bulk-click",
		map[string][]int{"indexes": indexes}, &result)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("bulk click: status %d", status)
	}
	return &result, nil
}

func (c *Client) Restart() (*GameState, error) {
	var env StateEnvelope
	status, err := c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/restart", nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || env.State == nil {
		return nil, fmt.Errorf("restart: status %d", status)
	}
	return env.State, nil
}

// Advance returns the HTTP status; callers decide what counts as expected.
func (c *Client) Advance() (int, error) {
	return c.do(http.MethodPost, "/api/sessions/"+c.sessionID+"/advance", nil, nil)
}

func (c *Client) SetDifficulty(configID string) (*GameState, error) {
	var env StateEnvelope
	status, err := c.do(http.MethodPut, "/api/sessions/"+c.sessionID+"/difficulty",
		map[string]string{"config_id": configID}, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || env.State == nil {
		return nil, fmt.Errorf("set difficulty: status %d", status)
	}
	return env.State, nil
}

func (c *Client) History(limit int) (*HistoryResponse, error) {
	var history HistoryResponse
	path := fmt.Sprintf("/api/sessions/%s/history?limit=%d", c.sessionID, limit)
	status, err := c.do(http.MethodGet, path, nil, &history)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("history: status %d", status)
	}
	return &history, nil
}

func (c *Client) DeleteSession() error {
	status, err := c.do(http.MethodDelete, "/api/sessions/"+c.sessionID, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("delete session: status %d", status)
	}
	return nil
}

// neighborOfEmpty picks the cell left of the empty cell, or right of it when
// the empty cell sits on the left edge. Either way the pick is orthogonally
// adjacent, so it is always a legal click on a running board.
func neighborOfEmpty(state *GameState) int {
	if state.EmptyIndex%state.GridSize > 0 {
		return state.EmptyIndex - 1
	}
	return state.EmptyIndex + 1
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configName := flag.String("config", "easy", "Difficulty for the probe session")
	keep := flag.Bool("keep", false, "Leave the probe session on the server")
	flag.Parse()

	log.Printf("Probing game server at %s", *serverURL)
	client := NewClient(*serverURL)

	failed := 0
	check := func(name string, err error) {
		if err != nil {
			failed++
			log.Printf("❌ %s: %v", name, err)
			return
		}
		log.Printf("✅ %s", name)
	}

	check("health", client.Health())

	configs, err := client.ListConfigs()
	if err == nil && len(configs) < 3 {
		err = fmt.Errorf("expected at least the built-in tiers, got %d configs", len(configs))
	}
	check("list configs", err)

	state, err := client.CreateSession(*configName)
	if err == nil {
		switch {
		case state == nil:
			err = fmt.Errorf("no game state in response")
		case len(state.Board) != state.GridSize*state.GridSize:
			err = fmt.Errorf("board has %d cells for grid %d", len(state.Board), state.GridSize)
		case state.Phase != "running":
			err = fmt.Errorf("fresh session in phase %q", state.Phase)
		}
	}
	check("create session", err)
	if client.sessionID == "" || state == nil {
		log.Printf("❌ no session to probe, giving up")
		os.Exit(1)
	}
	log.Printf("   session %s (%s, %dx%d)", client.sessionID, state.ConfigName, state.GridSize, state.GridSize)

	clickResp, err := client.Click(neighborOfEmpty(state))
	if err == nil {
		if !clickResp.Accepted {
			err = fmt.Errorf("legal click rejected: %s", clickResp.Message)
		} else if clickResp.GameState.Moves != 1 {
			err = fmt.Errorf("expected 1 move, got %d", clickResp.GameState.Moves)
		}
	}
	check("legal click slides", err)

	emptyIndex := state.EmptyIndex
	if clickResp != nil && clickResp.GameState != nil {
		emptyIndex = clickResp.GameState.EmptyIndex
	}
	clickResp, err = client.Click(emptyIndex)
	if err == nil && clickResp.Accepted {
		err = fmt.Errorf("clicking the empty cell was accepted")
	}
	check("empty cell click rejected", err)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	indexes := make([]int, 60)
	for i := range indexes {
		indexes[i] = rng.Intn(state.GridSize * state.GridSize)
	}
	bulk, err := client.BulkClick(indexes)
	if err == nil {
		switch {
		case !bulk.Truncated:
			err = fmt.Errorf("60 clicks were not truncated")
		case bulk.RequestedClicks != 60:
			err = fmt.Errorf("requested_clicks = %d, want 60", bulk.RequestedClicks)
		case bulk.ClicksExecuted > bulk.Limit:
			err = fmt.Errorf("executed %d clicks past the limit %d", bulk.ClicksExecuted, bulk.Limit)
		}
	}
	check("bulk click truncates", err)

	restarted, err := client.Restart()
	if err == nil {
		if restarted.Moves != 0 {
			err = fmt.Errorf("moves = %d after restart", restarted.Moves)
		} else if restarted.Phase != "running" {
			err = fmt.Errorf("phase %q after restart", restarted.Phase)
		}
	}
	check("restart reshuffles", err)

	status, err := client.Advance()
	if err == nil && status != http.StatusConflict {
		err = fmt.Errorf("advancing an unsolved board answered %d, want %d", status, http.StatusConflict)
	}
	check("advance guard holds", err)

	history, err := client.History(5)
	if err == nil && history.TotalClicks < 1 {
		err = fmt.Errorf("history is empty after clicking")
	}
	check("history survives restart", err)

	switched, err := client.SetDifficulty("hard")
	if err == nil && switched.GridSize != 5 {
		err = fmt.Errorf("grid is %d after switching to hard", switched.GridSize)
	}
	check("difficulty switch", err)

	if *keep {
		log.Printf("Leaving session %s on the server", client.sessionID)
	} else {
		err = client.DeleteSession()
		if err == nil {
			if _, status, gerr := client.GetState(); gerr == nil && status != http.StatusNotFound {
				err = fmt.Errorf("deleted session still answers with %d", status)
			}
		}
		check("delete session", err)
	}

	if failed > 0 {
		log.Printf("❌ %d check(s) failed", failed)
		os.Exit(1)
	}
	log.Printf("🎉 All checks passed")
}
