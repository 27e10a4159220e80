// Package mcp exposes the slide puzzle to AI agents over the Model Context
// Protocol.
//
// The server is a thin REST proxy: each tool call becomes an HTTP request
// against the API server and the JSON response is rendered as text an agent
// can read at a glance. It runs over stdio for local MCP clients or mounts
// as an HTTP endpoint for remote ones.
//
// MCP Tools:
//
//   - get_board: Current board rendering with clock, phase, and clickable hints
//   - click_tile: Execute a single click by flat cell index
//   - bulk_click: Execute multiple clicks in sequence
//   - restart: Reshuffle the board and reset moves and clock
//   - advance_level: Move a solved board to the next level
//   - set_difficulty: Switch the session to another configuration
//   - get_history: Retrieve click history with pagination
//   - create_session: Open a session on a chosen configuration
//   - get_session: Fetch one session's info and state
//   - list_sessions: Enumerate active sessions
//   - list_difficulties: Enumerate loadable configurations
//   - game_instructions: Comprehensive rules and solving strategy
//   - describe_tile: Inspect one cell's tile, goal position, and adjacency
//
// Board Rendering:
//
// Boards come out as aligned grids with a middle dot for the empty cell:
//
//	  1   2   3
//	  4   ·   5
//	  7   8   6
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.NewStdioServer(client.GetMCPServer()).Listen(ctx, os.Stdin, os.Stdout)
//
// Every game tool takes a session_id, so one agent can interleave clicks
// across several boards, test sequences with bulk_click, and audit the
// results through click history.
package mcp
