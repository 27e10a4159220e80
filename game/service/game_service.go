package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/slidepuzzle/game/clock"
	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// ErrNotSolved is returned when an operation requires a solved puzzle, such
// as advancing to the next level.
var ErrNotSolved = errors.New("puzzle is not solved")

// GameService defines the business logic interface for puzzle operations.
// All transports (REST, WebSocket pushes, MCP tools) go through this.
type GameService interface {
	// Session management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game operations
	ClickTile(ctx context.Context, sessionID string, index int, restart bool) (*ClickResult, error)
	BulkClick(ctx context.Context, sessionID string, indexes []int, restart bool) (*BulkClickResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)
	AdvanceLevel(ctx context.Context, sessionID string) (*engine.GameState, error)
	SetDifficulty(ctx context.Context, sessionID string, configName string) (*engine.GameState, error)

	// State queries
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetClickHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]ConfigInfo, error)
	LoadConfig(ctx context.Context, name string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, name string, config *engine.GameConfig) error

	// Close stops every session's heartbeat and pending timers.
	Close() error
}

// SessionManager handles session lifecycle.
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) int
	Count() int
	StopAll()
}

// ConfigManager handles loading and listing of game configurations.
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]string, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Notifier receives pushes when a session's state changes outside a direct
// call, such as clock ticks or the celebration flag clearing. The WebSocket
// hub implements it. A nil Notifier is allowed and disables pushes.
type Notifier interface {
	BroadcastToSession(sessionID string, state *engine.GameState)
	BroadcastEvent(sessionID string, event string, data interface{})
}

// Session represents an active game session.
type Session struct {
	ID             string
	Engine         *engine.PuzzleEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Clock drives the one-second heartbeat. Nil until the service starts it.
	Clock *clock.Clock

	// celebration clears the celebration flag a few seconds after a solve.
	celebration *time.Timer
	// clockGen identifies the current heartbeat so ticks from a replaced
	// clock are ignored.
	clockGen uint64
}

// ReleaseTimers stops the session's heartbeat and any pending celebration
// reset. Safe to call on a session that never started them.
func (s *Session) ReleaseTimers() {
	if s.Clock != nil {
		s.Clock.Stop()
	}
	if s.celebration != nil {
		s.celebration.Stop()
	}
}
