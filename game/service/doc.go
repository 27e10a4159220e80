// Package service provides the business logic layer for the sliding puzzle,
// sitting between the transports (REST, WebSocket, MCP) and the game engine.
//
// The package defines three interfaces and their wiring:
//
//   - GameService: the operations every transport calls. Session CRUD,
//     clicks (single and bulk), restart, level advancement, difficulty
//     switching, state and history queries, and configuration access.
//   - SessionManager: session lifecycle. Implemented by game/session.
//   - ConfigManager: configuration loading and listing. Implemented by
//     game/config.
//
// # Sessions and timers
//
// Each Session owns a heartbeat clock that ticks its engine once per second
// while the puzzle is running. The clock stops itself when the session
// leaves the running phase, and is replaced whenever the board reshuffles
// (create, restart, advance, difficulty change). A solve arms a second
// timer that lowers the celebration flag a few seconds later.
//
// State changes that originate from timers rather than calls (clock ticks,
// the celebration flag clearing) are pushed through the optional Notifier,
// which the WebSocket hub implements. Passing a nil Notifier disables
// pushes; everything else keeps working.
//
// # Concurrency
//
// A single RWMutex guards all game mutations. Reads (state queries, history
// pagination, listings) take the read lock. The per-session engines are not
// safe for concurrent use on their own; the service is the synchronization
// point. Every state returned or pushed to a Notifier is a snapshot taken
// under the lock, so callers may hold and encode it while the heartbeat
// keeps ticking the live state.
//
// # Usage
//
//	sessions := session.NewManager()
//	configs := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs, hub)
//	defer svc.Close()
//
//	info, err := svc.CreateSession(ctx, "medium")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := svc.ClickTile(ctx, info.ID, 4, false)
package service
