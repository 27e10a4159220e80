package service

import (
	"time"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// SessionInfo provides session metadata for API responses.
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state,omitempty"`
	GameConfig     *engine.GameConfig `json:"game_config,omitempty"`
}

// GameEvent describes a notable moment during an operation, suitable for
// display logs and WebSocket pushes.
type GameEvent struct {
	Type      string        `json:"type"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Index     *int          `json:"index,omitempty"`
	Signal    engine.Signal `json:"signal,omitempty"`
}

// StepInfo traces a single accepted slide: which tile moved and between
// which cells.
type StepInfo struct {
	Index int             `json:"index"`
	Tile  engine.Tile     `json:"tile"`
	From  engine.Position `json:"from"`
	To    engine.Position `json:"to"`
}

// RejectedInfo explains why a click did not move anything.
type RejectedInfo struct {
	Index  int         `json:"index"`
	Tile   engine.Tile `json:"tile,omitempty"`
	Reason string      `json:"reason"`
}

// ClickResult is the outcome of a single click.
type ClickResult struct {
	Accepted  bool              `json:"accepted"`
	Signals   []engine.Signal   `json:"signals,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
	Rejected  *RejectedInfo     `json:"rejected,omitempty"`
}

// BulkStep traces one click within a bulk operation.
type BulkStep struct {
	Idx      int             `json:"idx"`
	Index    int             `json:"index"`
	Tile     engine.Tile     `json:"tile"`
	Accepted bool            `json:"accepted"`
	Signals  []engine.Signal `json:"signals,omitempty"`
	Solved   bool            `json:"solved,omitempty"`
	TimedOut bool            `json:"timed_out,omitempty"`
}

// BulkClickResult summarizes a batch of clicks, with enough diagnostics to
// see where a scripted sequence went wrong.
type BulkClickResult struct {
	ClicksExecuted  int               `json:"clicks_executed"`
	ClicksAccepted  int               `json:"clicks_accepted"`
	RequestedClicks int               `json:"requested_clicks"`
	Truncated       bool              `json:"truncated,omitempty"`
	Limit           int               `json:"limit,omitempty"`
	StopReasonCode  string            `json:"stop_reason_code"`
	StartMisplaced  int               `json:"start_misplaced"`
	EndMisplaced    int               `json:"end_misplaced"`
	Solved          bool              `json:"solved"`
	TimedOut        bool              `json:"timed_out"`
	Message         string            `json:"message"`
	GameState       *engine.GameState `json:"game_state"`
	Steps           []BulkStep        `json:"steps"`
	Events          []GameEvent       `json:"events,omitempty"`
	PossibleClicks  []int             `json:"possible_clicks"`
}

// HistoryOptions configures click-history pagination. Zero values fall back
// to page 1, limit 20, newest first.
type HistoryOptions struct {
	Page  int
	Limit int
	Order string // "asc" or "desc"
}

// HistoryResponse is one page of a session's click history.
type HistoryResponse struct {
	Clicks      []engine.ClickHistoryEntry `json:"clicks"`
	TotalClicks int                        `json:"total_clicks"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"page_size"`
	TotalPages  int                        `json:"total_pages"`
	HasNext     bool                       `json:"has_next"`
	HasPrevious bool                       `json:"has_previous"`
}

// ConfigInfo summarizes an available configuration for listings.
type ConfigInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	GridSize          int    `json:"grid_size"`
	TimeBudgetSeconds int    `json:"time_budget_seconds"`
	Builtin           bool   `json:"builtin,omitempty"`
}
