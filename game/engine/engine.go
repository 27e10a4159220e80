package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Initialize() *GameState
	Restart() *GameState
	AdvanceLevel() bool
	IsSolved() bool
	IsTimedOut() bool
	IsTerminal() bool
	GetMoves() int
	GetElapsed() int
	GetLevel() int

	// Click operations
	ClickTile(index int) ClickOutcome
	CanClick(index int) bool
	GetClickableTiles() []int

	// Clock
	Tick() []Signal

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetClickHistory() []ClickHistoryEntry
	GetLastClick() *ClickHistoryEntry

	// Presentation
	ClearCelebration()
}

// ClickOutcome reports how a single tile click landed. A silent rejection has
// Accepted false and no signals.
type ClickOutcome struct {
	Accepted bool     `json:"accepted"`
	Signals  []Signal `json:"signals,omitempty"`
}

// PuzzleEngine implements the Engine interface. Methods are not safe for
// concurrent use; callers serialize access, which also keeps session events
// strictly ordered.
type PuzzleEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new puzzle engine with the provided configuration. The
// engine starts idle at level 1; the first Initialize (or Restart) shuffles a
// board and starts the run.
func NewEngine(config *GameConfig) (*PuzzleEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &PuzzleEngine{
		config: config,
		state:  IdleStateFromConfig(config),
		rng:    newRNG(config.Seed),
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new puzzle engine on the default tier
func NewEngineWithDefaults() *PuzzleEngine {
	engine := &PuzzleEngine{
		config: DefaultConfig(),
	}
	engine.state = IdleStateFromConfig(engine.config)
	engine.rng = newRNG(engine.config.Seed)
	return engine
}

// NewEngineForDifficulty creates a new puzzle engine from a built-in tier
func NewEngineForDifficulty(d Difficulty) (*PuzzleEngine, error) {
	config, err := BuiltinConfig(d)
	if err != nil {
		return nil, err
	}
	return NewEngine(config)
}

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GetState returns the current game state
func (e *PuzzleEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used by tests and tooling to pin a known
// layout). The board, when present, must satisfy the structural invariants.
func (e *PuzzleEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Board) > 0 {
		if err := ValidateBoard(state.Board, state.GridSize); err != nil {
			return err
		}
	}
	e.state = state
	e.state.refreshDerived()
	return nil
}

// Initialize shuffles a fresh board and enters the running phase. Counters
// for the run are zeroed and flags cleared; the level and the cumulative
// click history survive.
func (e *PuzzleEngine) Initialize() *GameState {
	level := e.state.Level
	if level < 1 {
		level = 1
	}

	// Preserve cumulative history and totals across shuffles
	prevHistory := e.state.ClickHistory
	prevTotal := e.state.TotalClicks

	e.state = IdleStateFromConfig(e.config)
	e.state.Level = level
	e.state.Board = GenerateFrom(e.rng, e.config.GridSize, level)
	e.state.Phase = PhaseRunning
	e.state.Message = e.config.Messages.Welcome

	e.state.ClickHistory = prevHistory
	e.state.TotalClicks = prevTotal

	e.state.refreshDerived()
	return e.state
}

// Restart reshuffles the board at the same tier and level. It is Initialize
// under its player-facing name and works from any phase.
func (e *PuzzleEngine) Restart() *GameState {
	return e.Initialize()
}

// AdvanceLevel moves a solved session to the next round: the level goes up
// and a fresh board is shuffled with the wider swap window feeding the bias.
// It has no effect unless the current run is solved.
func (e *PuzzleEngine) AdvanceLevel() bool {
	if e.state.Phase != PhaseSolved {
		return false
	}

	e.state.Level++
	level := e.state.Level
	e.Initialize()
	if e.config.Messages.LevelUp != "" {
		e.state.Message = fmt.Sprintf(e.config.Messages.LevelUp, level)
	}
	return true
}

// IsSolved returns whether the current run ended in a solved board
func (e *PuzzleEngine) IsSolved() bool {
	return e.state.Solved
}

// IsTimedOut returns whether the current run ran out its time budget
func (e *PuzzleEngine) IsTimedOut() bool {
	return e.state.TimedOut
}

// IsTerminal returns whether the session is in a terminal phase
func (e *PuzzleEngine) IsTerminal() bool {
	return e.state.Phase == PhaseSolved || e.state.Phase == PhaseTimedOut
}

// GetMoves returns the accepted-move count for the current run
func (e *PuzzleEngine) GetMoves() int {
	return e.state.Moves
}

// GetElapsed returns the elapsed seconds for the current run
func (e *PuzzleEngine) GetElapsed() int {
	return e.state.Elapsed
}

// GetLevel returns the current level
func (e *PuzzleEngine) GetLevel() int {
	return e.state.Level
}

// ClickTile processes a click at a board index. Clicks outside the board are
// ignored entirely. Clicks in a terminal phase and clicks on the empty cell
// are silent rejections. A click on a tile that is not next to the empty cell
// rejects with an error signal. A legal click slides the tile, bumps the move
// counter, emits a move signal, and re-checks the board; solving raises the
// celebration flag and adds a success signal.
func (e *PuzzleEngine) ClickTile(index int) ClickOutcome {
	s := e.state
	if index < 0 || index >= len(s.Board) {
		return ClickOutcome{}
	}

	tile := s.Board[index]
	from := PositionOf(index, s.GridSize)

	if s.Phase != PhaseRunning || tile == Empty {
		s.AddClickToHistory(index, tile, from, from, false, "")
		return ClickOutcome{}
	}

	emptyIdx := s.Board.EmptyIndex()
	next, ok := TryMove(s.Board, s.GridSize, index)
	if !ok {
		if e.config.Messages.CantMove != "" {
			s.Message = e.config.Messages.CantMove
		}
		s.AddClickToHistory(index, tile, from, from, false, SignalError)
		return ClickOutcome{Signals: []Signal{SignalError}}
	}

	s.Board = next
	s.Moves++
	to := PositionOf(emptyIdx, s.GridSize)
	signals := []Signal{SignalMove}
	recorded := SignalMove

	if s.Board.IsSolved() {
		s.Phase = PhaseSolved
		s.Solved = true
		s.Celebrating = true
		s.Message = fmt.Sprintf(e.config.Messages.Solved, s.Moves)
		signals = append(signals, SignalSuccess)
		recorded = SignalSuccess
	} else if e.config.Messages.Status != "" {
		s.Message = fmt.Sprintf(e.config.Messages.Status, s.Moves)
	}

	// The history entry carries the strongest signal of the click, so a
	// solving click reads back as a success rather than a plain move.
	s.AddClickToHistory(index, tile, from, to, true, recorded)
	s.refreshDerived()
	return ClickOutcome{Accepted: true, Signals: signals}
}

// CanClick reports whether a click at index would slide a tile right now
func (e *PuzzleEngine) CanClick(index int) bool {
	s := e.state
	if s.Phase != PhaseRunning {
		return false
	}
	if index < 0 || index >= len(s.Board) || s.Board[index] == Empty {
		return false
	}
	return Adjacent(index, s.Board.EmptyIndex(), s.GridSize)
}

// GetClickableTiles returns the board indexes whose tiles can slide into the
// empty cell
func (e *PuzzleEngine) GetClickableTiles() []int {
	var clickable []int
	for i := range e.state.Board {
		if e.CanClick(i) {
			clickable = append(clickable, i)
		}
	}
	return clickable
}

// Tick advances the clock by one second. Outside the running phase it is a
// no-op. When the budget is reached the run times out exactly once with an
// error signal; the elapsed counter stops at the budget and never exceeds it.
func (e *PuzzleEngine) Tick() []Signal {
	s := e.state
	if s.Phase != PhaseRunning {
		return nil
	}

	s.Elapsed++
	if s.Elapsed >= s.TimeBudget {
		s.Elapsed = s.TimeBudget
		s.Phase = PhaseTimedOut
		s.TimedOut = true
		s.Message = e.config.Messages.TimedOut
		s.refreshDerived()
		return []Signal{SignalError}
	}

	s.refreshDerived()
	return nil
}

// GetConfig returns the current game configuration
func (e *PuzzleEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig swaps the difficulty tier and immediately reshuffles. The level
// and the cumulative click history carry over; everything else starts fresh.
func (e *PuzzleEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	if config.Seed != 0 {
		e.rng = newRNG(config.Seed)
	}
	e.Initialize()
	return nil
}

// GetClickHistory returns the cumulative click history
func (e *PuzzleEngine) GetClickHistory() []ClickHistoryEntry {
	return e.state.ClickHistory
}

// GetLastClick returns the most recent click, or nil if none
func (e *PuzzleEngine) GetLastClick() *ClickHistoryEntry {
	if len(e.state.ClickHistory) == 0 {
		return nil
	}
	return &e.state.ClickHistory[len(e.state.ClickHistory)-1]
}

// ClearCelebration lowers the celebration flag. The service layer calls this
// from the deferred reset a few seconds after a solve; the solved phase and
// flag are untouched.
func (e *PuzzleEngine) ClearCelebration() {
	e.state.Celebrating = false
}

// BulkClick executes multiple clicks in sequence, stopping when the session
// leaves the running phase. It returns the outcome of each click attempted.
func (e *PuzzleEngine) BulkClick(indexes []int) []ClickOutcome {
	outcomes := make([]ClickOutcome, 0, len(indexes))

	for _, index := range indexes {
		if e.IsTerminal() {
			break
		}
		outcomes = append(outcomes, e.ClickTile(index))
	}

	return outcomes
}
