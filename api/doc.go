// Package api provides HTTP REST API handlers for the sliding puzzle.
//
// The package wires four surfaces onto one mux router:
//   - REST endpoints for sessions and game operations
//   - Configuration listing, selection and creation
//   - The WebSocket upgrade for state pushes
//   - Static file serving for the browser client
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions             - Create new session
//   - GET    /api/sessions             - List all sessions (sort, order, limit)
//   - GET    /api/sessions/unified     - Multi-board view with a scoreboard
//   - GET    /api/sessions/{id}        - Get specific session
//   - DELETE /api/sessions/{id}        - Delete session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      - Current game state
//   - POST /api/sessions/{id}/click      - Click a cell: {"index": 4, "restart": false}
//   - POST /api/sessions/{id}/bulk-click - Scripted clicks: {"indexes": [4,7,8]}
//   - POST /api/sessions/{id}/restart    - Reshuffle the current level
//   - POST /api/sessions/{id}/advance    - Next level (requires a solved board)
//   - PUT  /api/sessions/{id}/difficulty - Switch config: {"config_id": "hard"}
//   - GET  /api/sessions/{id}/history    - Click history with pagination
//
// Configuration:
//   - GET  /api/configs        - List available configurations
//   - POST /api/configs        - Save a configuration
//   - GET  /api/configs/{name} - Get a configuration
//
// Other:
//   - GET /api/health - Liveness probe
//   - GET /ws?session={id} - WebSocket upgrade for state pushes
//   - GET /  - The browser client from ./static/
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{"error": "session not found"}
//
// Enriched Responses (Click and Bulk Click)
//
// Click (POST /api/sessions/{id}/click)
//   Response:
//     - accepted, signals: ["move","success"] | ["error"]
//     - step: { index, tile, from{row,col}, to{row,col} }    // when accepted
//     - rejected: { index, tile, reason }                    // when refused
//     - events: [{ type, message, timestamp, index?, signal? }]
//     - game_state: the full post-click state
//
// Bulk Click (POST /api/sessions/{id}/bulk-click)
//   Response:
//     - clicks_executed, clicks_accepted, requested_clicks, truncated, limit
//     - stop_reason_code: "completed|solved|timed_out"
//     - start_misplaced, end_misplaced, possible_clicks
//     - steps: [{ idx, index, tile, accepted, signals, solved?, timed_out? }]
//     - game_state: the full post-batch state
//
// State changes made through these endpoints are also pushed to WebSocket
// watchers of the same session.
package api
