package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/slidepuzzle/game/clock"
	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// tickInterval is the heartbeat period. A variable so tests can shrink it.
var tickInterval = time.Second

// celebrationDelay is how long the celebration flag stays raised after a
// solve before the service clears it and pushes the updated state.
var celebrationDelay = engine.CelebrationSeconds * time.Second

// gameServiceImpl implements GameService.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier Notifier
	mu       sync.RWMutex
}

// NewGameService creates a new game service. notifier may be nil when no
// push channel is wired, e.g. in tests or stdio-only tools.
func NewGameService(sessions SessionManager, configs ConfigManager, notifier Notifier) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		notifier: notifier,
	}
}

// CreateSession creates a new session with the specified config. An empty
// configName selects the default difficulty.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	if configName == "" {
		config = s.configs.GetDefault()
	} else {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			available, _ := s.configs.ListConfigs()
			return nil, fmt.Errorf("failed to load config '%s': %w. Available configs: %v", configName, err, available)
		}
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Engine.Initialize()
	s.startClockLocked(sess)

	log.Info("session created", "session", sess.ID, "config", config.Name, "grid", config.GridSize)

	return s.sessionInfo(sess), nil
}

// GetSession returns session metadata along with the current game state.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns metadata for all active sessions.
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, s.sessionInfo(sess))
	}
	return infos, nil
}

// DeleteSession removes a session. The manager releases its timers.
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info("session deleted", "session", sessionID)
	return nil
}

// ClickTile performs a single click. When restart is true the board is
// reshuffled first and the click lands on the fresh board.
func (s *gameServiceImpl) ClickTile(ctx context.Context, sessionID string, index int, restart bool) (*ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	if restart {
		s.stopCelebrationLocked(sess)
		sess.Engine.Restart()
		s.startClockLocked(sess)
		events = append(events, GameEvent{
			Type:      "restart",
			Message:   "Board reshuffled",
			Timestamp: time.Now(),
		})
	}

	before := sess.Engine.GetState()
	var tile engine.Tile
	if index >= 0 && index < len(before.Board) {
		tile = before.Board[index]
	}
	phaseBefore := before.Phase
	emptyBefore := before.EmptyIndex

	outcome := sess.Engine.ClickTile(index)
	state := sess.Engine.GetState()

	// Results carry a snapshot so callers can read and encode it after s.mu
	// is released without racing the session heartbeat.
	result := &ClickResult{
		Accepted:  outcome.Accepted,
		Signals:   outcome.Signals,
		GameState: state.Snapshot(),
		Message:   state.Message,
		Events:    events,
	}

	if outcome.Accepted {
		result.Step = &StepInfo{
			Index: index,
			Tile:  tile,
			From:  engine.PositionOf(index, state.GridSize),
			To:    engine.PositionOf(emptyBefore, state.GridSize),
		}
		result.Events = append(result.Events, GameEvent{
			Type:      "click",
			Message:   fmt.Sprintf("Tile %d slid into the empty cell", tile),
			Timestamp: time.Now(),
			Index:     &index,
			Signal:    engine.SignalMove,
		})
		if state.Solved {
			result.Events = append(result.Events, GameEvent{
				Type:      "solved",
				Message:   state.Message,
				Timestamp: time.Now(),
				Signal:    engine.SignalSuccess,
			})
			s.scheduleCelebrationClear(sess)
			log.Info("puzzle solved", "session", sessionID, "level", state.Level, "moves", state.Moves)
		}
	} else {
		result.Rejected = &RejectedInfo{
			Index:  index,
			Tile:   tile,
			Reason: rejectReason(index, tile, phaseBefore, len(before.Board)),
		}
		if len(outcome.Signals) > 0 {
			result.Events = append(result.Events, GameEvent{
				Type:      "rejected",
				Message:   state.Message,
				Timestamp: time.Now(),
				Index:     &index,
				Signal:    engine.SignalError,
			})
		}
	}

	return result, nil
}

// BulkClick executes up to engine.MaxBulkClicks clicks in order, stopping
// early when the puzzle is solved or the session hits a terminal phase.
func (s *gameServiceImpl) BulkClick(ctx context.Context, sessionID string, indexes []int, restart bool) (*BulkClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	if restart {
		s.stopCelebrationLocked(sess)
		sess.Engine.Restart()
		s.startClockLocked(sess)
		events = append(events, GameEvent{
			Type:      "restart",
			Message:   "Board reshuffled",
			Timestamp: time.Now(),
		})
	}

	requested := len(indexes)
	truncated := false
	if len(indexes) > engine.MaxBulkClicks {
		indexes = indexes[:engine.MaxBulkClicks]
		truncated = true
	}

	startMisplaced := engine.CountMisplaced(sess.Engine.GetState().Board)
	steps := make([]BulkStep, 0, len(indexes))
	accepted := 0
	stopReason := "completed"

	for i, index := range indexes {
		if sess.Engine.IsTerminal() {
			stopReason = terminalReason(sess.Engine.GetState())
			break
		}

		board := sess.Engine.GetState().Board
		var tile engine.Tile
		if index >= 0 && index < len(board) {
			tile = board[index]
		}

		outcome := sess.Engine.ClickTile(index)
		st := sess.Engine.GetState()
		steps = append(steps, BulkStep{
			Idx:      i,
			Index:    index,
			Tile:     tile,
			Accepted: outcome.Accepted,
			Signals:  outcome.Signals,
			Solved:   st.Solved,
			TimedOut: st.TimedOut,
		})
		if outcome.Accepted {
			accepted++
		}
		if st.Phase == engine.PhaseSolved {
			stopReason = "solved"
			events = append(events, GameEvent{
				Type:      "solved",
				Message:   st.Message,
				Timestamp: time.Now(),
				Signal:    engine.SignalSuccess,
			})
			s.scheduleCelebrationClear(sess)
			log.Info("puzzle solved", "session", sessionID, "level", st.Level, "moves", st.Moves)
			break
		}
	}

	state := sess.Engine.GetState()
	result := &BulkClickResult{
		ClicksExecuted:  len(steps),
		ClicksAccepted:  accepted,
		RequestedClicks: requested,
		Truncated:       truncated,
		StopReasonCode:  stopReason,
		StartMisplaced:  startMisplaced,
		EndMisplaced:    engine.CountMisplaced(state.Board),
		Solved:          state.Solved,
		TimedOut:        state.TimedOut,
		Message:         state.Message,
		GameState:       state.Snapshot(),
		Steps:           steps,
		Events:          events,
		PossibleClicks:  sess.Engine.GetClickableTiles(),
	}
	if truncated {
		result.Limit = engine.MaxBulkClicks
	}
	return result, nil
}

// Restart reshuffles the current level. The level and cumulative click
// history survive; moves and the clock start over.
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	s.stopCelebrationLocked(sess)
	state := sess.Engine.Restart()
	s.startClockLocked(sess)
	return state.Snapshot(), nil
}

// AdvanceLevel moves a solved session to the next level. It fails when the
// puzzle is not currently solved.
func (s *gameServiceImpl) AdvanceLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if !sess.Engine.AdvanceLevel() {
		return nil, fmt.Errorf("cannot advance level for session '%s': %w", sessionID, ErrNotSolved)
	}
	s.stopCelebrationLocked(sess)
	s.startClockLocked(sess)

	state := sess.Engine.GetState()
	log.Info("level advanced", "session", sessionID, "level", state.Level)
	return state.Snapshot(), nil
}

// SetDifficulty switches the session to another config and reshuffles. The
// level and cumulative click history survive the switch.
func (s *gameServiceImpl) SetDifficulty(ctx context.Context, sessionID string, configName string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		available, _ := s.configs.ListConfigs()
		return nil, fmt.Errorf("failed to load config '%s': %w. Available configs: %v", configName, err, available)
	}
	if err := sess.Engine.SetConfig(config); err != nil {
		return nil, err
	}
	sess.Config = config

	s.stopCelebrationLocked(sess)
	s.startClockLocked(sess)

	log.Info("difficulty changed", "session", sessionID, "config", config.Name)
	return sess.Engine.GetState().Snapshot(), nil
}

// GetGameState returns a snapshot of the session's current state. The live
// state stays behind the lock; handing it out would race the heartbeat.
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Snapshot(), nil
}

// GetClickHistory returns one page of the session's cumulative click history.
func (s *gameServiceImpl) GetClickHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetClickHistory()
	total := len(history)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	order := opts.Order
	if order != "asc" {
		order = "desc"
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	clicks := make([]engine.ClickHistoryEntry, 0, end-start)
	if order == "desc" {
		for i := total - 1 - start; i >= 0 && len(clicks) < limit; i-- {
			clicks = append(clicks, history[i])
		}
	} else {
		clicks = append(clicks, history[start:end]...)
	}

	return &HistoryResponse{
		Clicks:      clicks,
		TotalClicks: total,
		Page:        page,
		PageSize:    limit,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}

// ListConfigs returns summaries of every loadable configuration.
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]ConfigInfo, error) {
	names, err := s.configs.ListConfigs()
	if err != nil {
		return nil, err
	}

	infos := make([]ConfigInfo, 0, len(names))
	for _, name := range names {
		config, err := s.configs.LoadConfig(name)
		if err != nil {
			log.Warn("skipping unloadable config", "name", name, "error", err)
			continue
		}
		_, tierErr := engine.TierFor(engine.Difficulty(name))
		infos = append(infos, ConfigInfo{
			Name:              name,
			Description:       config.Description,
			GridSize:          config.GridSize,
			TimeBudgetSeconds: config.TimeBudgetSeconds,
			Builtin:           tierErr == nil,
		})
	}
	return infos, nil
}

// LoadConfig returns a single configuration by name.
func (s *gameServiceImpl) LoadConfig(ctx context.Context, name string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(name)
}

// SaveConfig validates and persists a configuration.
func (s *gameServiceImpl) SaveConfig(ctx context.Context, name string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(name, config); err != nil {
		return err
	}
	log.Info("config saved", "name", name)
	return nil
}

// Close stops every session's heartbeat and pending celebration timers.
func (s *gameServiceImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.StopAll()
	return nil
}

// startClockLocked replaces the session's heartbeat with a fresh one.
// Caller holds s.mu.
func (s *gameServiceImpl) startClockLocked(sess *Session) {
	if sess.Clock != nil {
		sess.Clock.Stop()
	}
	sess.clockGen++
	gen := sess.clockGen
	id := sess.ID
	sess.Clock = clock.Start(tickInterval, func() bool {
		return s.tickSession(id, gen)
	})
}

// tickSession advances one session's clock by a second and pushes the new
// state to watchers. It reports whether the session still needs a heartbeat.
func (s *gameServiceImpl) tickSession(sessionID string, gen uint64) bool {
	s.mu.Lock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil || sess.clockGen != gen {
		s.mu.Unlock()
		return false
	}
	signals := sess.Engine.Tick()
	snapshot := sess.Engine.GetState().Snapshot()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.BroadcastToSession(sessionID, snapshot)
		if len(signals) > 0 {
			s.notifier.BroadcastEvent(sessionID, "timeout", snapshot.Message)
		}
	}
	return snapshot.Phase == engine.PhaseRunning
}

// scheduleCelebrationClear arms a timer that lowers the celebration flag
// after celebrationDelay and pushes the updated state. Caller holds s.mu.
func (s *gameServiceImpl) scheduleCelebrationClear(sess *Session) {
	s.stopCelebrationLocked(sess)
	id := sess.ID
	sess.celebration = time.AfterFunc(celebrationDelay, func() {
		s.mu.Lock()
		sess, err := s.sessions.Get(id)
		if err != nil {
			s.mu.Unlock()
			return
		}
		sess.celebration = nil
		sess.Engine.ClearCelebration()
		snapshot := sess.Engine.GetState().Snapshot()
		s.mu.Unlock()

		if s.notifier != nil {
			s.notifier.BroadcastToSession(id, snapshot)
			s.notifier.BroadcastEvent(id, "celebration_cleared", nil)
		}
	})
}

// stopCelebrationLocked cancels a pending celebration reset. Caller holds s.mu.
func (s *gameServiceImpl) stopCelebrationLocked(sess *Session) {
	if sess.celebration != nil {
		sess.celebration.Stop()
		sess.celebration = nil
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Snapshot(),
		GameConfig:     sess.Config,
	}
}

// rejectReason explains a refused click using the state before the click.
func rejectReason(index int, tile engine.Tile, phase engine.Phase, cells int) string {
	switch {
	case index < 0 || index >= cells:
		return "index out of range"
	case phase != engine.PhaseRunning:
		return fmt.Sprintf("session is %s", phase)
	case tile == engine.Empty:
		return "cannot click the empty cell"
	default:
		return "tile is not adjacent to the empty cell"
	}
}

func terminalReason(state *engine.GameState) string {
	if state.TimedOut {
		return "timed_out"
	}
	return "solved"
}
