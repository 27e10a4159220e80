// Package websocket provides the push transport for the sliding puzzle.
//
// The package covers:
//   - Per-session fanout of game state and feedback signals
//   - Registration keyed by session ID
//   - Ping/pong keepalive and dead-connection cleanup
//
// Architecture:
//
// A single Hub owns every connection in a hub-and-spoke layout. Each client
// gets dedicated read and write goroutines; the hub's Run loop serializes
// registration and fanout.
//
// Message Protocol:
//
// Messages are JSON-encoded and flow server-to-client only. The browser
// sends its commands over the REST API; the socket exists so every watcher
// of a session sees ticks, clicks, and timeouts as they happen.
//
//	{"session_id":"ab12","event":"state_update","game_state":{...}}
//	{"session_id":"ab12","event":"timeout","data":"Time's up! Restart to try again."}
//	{"session_id":"ab12","event":"celebration_cleared"}
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12)
// when establishing the connection. IDs are case-insensitive, matching the
// session manager. State updates are broadcast only to clients watching the
// same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// hub satisfies service.Notifier
//	svc := service.NewGameService(sessions, configs, hub)
//
// Concurrency:
//
// BroadcastToSession and BroadcastEvent hand messages to the Run loop, so
// they are safe from any goroutine once Run is started. Slow consumers are
// dropped rather than allowed to stall the loop.
package websocket
