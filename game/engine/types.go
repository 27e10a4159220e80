package engine

import "time"

// Tile is a single cell value on a puzzle board. The zero value marks the
// empty cell.
type Tile int

// Empty is the one unoccupied cell every board carries. It marshals to 0.
const Empty Tile = 0

// Board is a row-major sequence of size*size cells. A well-formed board holds
// the labels 1..size*size-1 exactly once each plus exactly one Empty.
type Board []Tile

// Phase identifies where a session is in its lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhaseSolved   Phase = "solved"
	PhaseTimedOut Phase = "timed_out"
)

// Signal is the feedback emitted toward audio and visual collaborators.
// Whether a collaborator plays a sound or flashes is its own capability
// decision; the engine always reports.
type Signal string

const (
	SignalMove    Signal = "move"
	SignalSuccess Signal = "success"
	SignalError   Signal = "error"
)

// Difficulty names a built-in tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

const (
	// Validation constants
	MinGridSize   = 3
	MaxGridSize   = 5
	MinTimeBudget = 10   // seconds
	MaxTimeBudget = 3600 // seconds

	MaxBulkClicks       = 50
	CelebrationSeconds  = 3
	WebSocketBufferSize = 256
)

// Tier pairs a board width with a time budget.
type Tier struct {
	GridSize          int `json:"grid_size"`
	TimeBudgetSeconds int `json:"time_budget_seconds"`
}

// tiers is the difficulty lookup table. Adding a tier means adding a row here
// or shipping a JSON config file; the shuffle and the state machine never
// change.
var tiers = map[Difficulty]Tier{
	Easy:   {GridSize: 3, TimeBudgetSeconds: 900},
	Medium: {GridSize: 4, TimeBudgetSeconds: 600},
	Hard:   {GridSize: 5, TimeBudgetSeconds: 300},
}

// Position represents a row/column coordinate on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameConfig represents a difficulty tier loaded from JSON
type GameConfig struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	GridSize          int    `json:"grid_size"`
	TimeBudgetSeconds int    `json:"time_budget_seconds"`
	// Seed pins the shuffle source for reproducible boards; zero means
	// time-seeded.
	Seed     int64 `json:"seed,omitempty"`
	Messages struct {
		Welcome  string `json:"welcome"`
		Solved   string `json:"solved"`
		TimedOut string `json:"timed_out"`
		CantMove string `json:"cant_move"`
		LevelUp  string `json:"level_up"`
		Status   string `json:"status"`
	} `json:"messages"`
}

// ClickHistoryEntry represents a single click attempt against the board
type ClickHistoryEntry struct {
	Index       int      `json:"index"`
	Tile        Tile     `json:"tile"`
	From        Position `json:"from"`
	To          Position `json:"to"`
	Accepted    bool     `json:"accepted"`
	Signal      Signal   `json:"signal,omitempty"`
	Timestamp   int64    `json:"timestamp"`
	ClickNumber int      `json:"click_number"`
}

// GameState represents the complete state of a puzzle session
type GameState struct {
	Board      Board  `json:"board"`
	GridSize   int    `json:"grid_size"`
	EmptyIndex int    `json:"empty_index"`
	Moves      int    `json:"moves"`
	Elapsed    int    `json:"elapsed_seconds"`
	TimeBudget int    `json:"time_budget_seconds"`
	TimeLeft   int    `json:"time_left_seconds"`
	Clock      string `json:"clock"`
	Level      int    `json:"level"`
	Phase      Phase  `json:"phase"`
	Solved     bool   `json:"solved"`
	TimedOut   bool   `json:"timed_out"`
	// Celebrating is a presentation flag raised on solve and cleared a few
	// seconds later by the service layer.
	Celebrating bool   `json:"celebrating"`
	Message     string `json:"message"`
	ConfigName  string `json:"config_name"`

	// ClickHistory is cumulative across restarts and level advances.
	ClickHistory []ClickHistoryEntry `json:"click_history"`
	TotalClicks  int                 `json:"total_clicks"`

	// CurrentClicks tracks only the clicks since the last shuffle. It mirrors
	// ClickHistory entries but gets cleared when a new board comes up while
	// ClickHistory remains cumulative.
	CurrentClicks      []ClickHistoryEntry `json:"current_clicks"`
	CurrentClicksCount int                 `json:"current_clicks_count"`

	// Computed helper views (not required for core game logic)
	Misplaced     int    `json:"misplaced,omitempty"`
	ScrambleLevel string `json:"scramble_level,omitempty"`
}

// Snapshot returns a copy of the state that stays stable while the engine
// keeps running. The engine replaces Board wholesale on every move and only
// appends to the history slices, so copying the struct is enough to decouple
// the caller from later ticks and clicks.
func (gs *GameState) Snapshot() *GameState {
	copied := *gs
	return &copied
}

// AddClickToHistory records a click attempt against the board
func (gs *GameState) AddClickToHistory(index int, tile Tile, from, to Position, accepted bool, sig Signal) {
	entry := ClickHistoryEntry{
		Index:       index,
		Tile:        tile,
		From:        from,
		To:          to,
		Accepted:    accepted,
		Signal:      sig,
		Timestamp:   time.Now().Unix(),
		ClickNumber: gs.TotalClicks + 1,
	}
	// Append to cumulative history (never cleared by restart) and increment total
	gs.ClickHistory = append(gs.ClickHistory, entry)
	gs.TotalClicks++

	// Append to current segment history and increment its counter
	gs.CurrentClicks = append(gs.CurrentClicks, entry)
	gs.CurrentClicksCount++
}

// refreshDerived recomputes the helper fields rendering clients read off the
// state: empty index, countdown, formatted clock, and the scramble views.
func (gs *GameState) refreshDerived() {
	gs.EmptyIndex = gs.Board.EmptyIndex()
	gs.TimeLeft = gs.TimeBudget - gs.Elapsed
	if gs.TimeLeft < 0 {
		gs.TimeLeft = 0
	}
	gs.Clock = FormatElapsed(gs.Elapsed)
	gs.Misplaced = CountMisplaced(gs.Board)
	gs.ScrambleLevel = ScrambleLevel(gs.Board, gs.GridSize)
}
