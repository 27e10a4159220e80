package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
	"github.com/wricardo/mcp-training/slidepuzzle/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Slide Puzzle Game",
		"2.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Slide Puzzle Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Arrange the numbered tiles in ascending order, empty cell last, before the
time budget runs out. Click a tile next to the empty cell (·) to slide it over.

AVAILABLE TOOLS:
- get_board: Get current board and session state
- click_tile: Single click by flat index - requires intent explanation
- bulk_click: Multiple clicks at once - requires intent explanation
- restart: Reshuffle the board and reset the clock
- advance_level: Move a solved board to the next level
- set_difficulty: Switch the session to another configuration
- get_history: View past clicks
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_difficulties: List available configurations
- game_instructions: Get comprehensive game instructions and rules
- describe_tile: Get detailed info about one board cell (adjacency, goal cell)

NOTE: The 'intent' parameter on click_tile/bulk_click tools serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional, e.g. easy, medium, hard)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Get the current board, clock, and phase for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "click_tile",
		Description: "Click one cell by its flat index. The tile slides only when it shares an edge with the empty cell.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Flat cell index in row-major order (0 to grid_size*grid_size-1)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this click (serves as a rubber duck to help explain your reasoning)",
				},
				"restart": map[string]interface{}{
					"type":        "boolean",
					"description": "Reshuffle before clicking",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleClickTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_click",
		Description: "Execute multiple clicks in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"indexes": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "integer",
					},
					"description": "Array of flat cell indexes to click in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of clicks (serves as a rubber duck to help explain your reasoning)",
				},
				"restart": map[string]interface{}{
					"type":        "boolean",
					"description": "Reshuffle before clicking",
				},
			},
			Required: []string{"session_id", "indexes"},
		},
	}, c.handleBulkClick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Reshuffle the board and reset moves and clock",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_level",
		Description: "Advance a solved board to the next level with a fresh shuffle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvanceLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_difficulty",
		Description: "Switch the session to another configuration and reshuffle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to switch to (e.g. easy, medium, hard)",
				},
			},
			Required: []string{"session_id", "config_name"},
		},
	}, c.handleSetDifficulty)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_history",
		Description: "Get click history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_difficulties",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListDifficulties)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about one board cell: its tile, goal position, and whether clicking it slides anything right now.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Flat cell index in row-major order (0-based)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_name"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleClickTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	indexRaw, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}
	intent, _ := args["intent"].(string)
	restart, _ := args["restart"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"index":   int(indexRaw),
		"restart": restart,
	}

	var result service.ClickResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/click", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatClickResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	indexesRaw, _ := args["indexes"].([]interface{})
	intent, _ := args["intent"].(string)
	restart, _ := args["restart"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	// Convert indexes to int array
	indexes := make([]int, 0, len(indexesRaw))
	for _, v := range indexesRaw {
		if f, ok := v.(float64); ok {
			indexes = append(indexes, int(f))
		}
	}

	body := map[string]interface{}{
		"indexes": indexes,
		"restart": restart,
	}

	var result service.BulkClickResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-click", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkClickResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAdvanceLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/advance", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetDifficulty(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	configName, _ := args["config_name"].(string)

	body := map[string]string{"config_id": configName}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/difficulty", sessionID), body, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Also fetch current segment from live state
	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		// If fetching session fails, still return the history
		result := formatHistory(&history)
		return mcp.NewToolResultText(result), nil
	}

	result := formatHistory(&history)
	result += "\n" + formatCurrentSegment(session.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListDifficulties(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		marker := ""
		if config.Builtin {
			marker = " (builtin)"
		}
		result += fmt.Sprintf("• %s%s\n  %s\n  Grid: %dx%d, Time budget: %s\n\n",
			config.Name, marker, config.Description,
			config.GridSize, config.GridSize, engine.FormatElapsed(config.TimeBudgetSeconds))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🧩 Slide Puzzle Game - Complete Instructions

GAME OBJECTIVE:
Arrange the numbered tiles in ascending order, left to right, top to bottom,
with the empty cell in the bottom-right corner, before the clock runs out.

GAME MECHANICS:
• Clicking: a tile slides into the empty cell only when it shares an edge with it
• Error feedback: clicking a tile that is NOT next to the empty cell moves nothing and raises the error signal
• Silent clicks: clicking the empty cell itself, or any cell after the game ends, does nothing at all
• Clock: runs from the moment a board is dealt and stops when the board is solved or time runs out
• Victory: tiles read 1, 2, 3, ... with the empty cell in the last position
• Time out: elapsed time reaches the configured budget

BOARD LEGEND:
• 1..N - numbered tiles (N = grid_size² - 1)
• · - the empty cell

INDEX ARITHMETIC (ESSENTIAL FOR PLANNING):
The board is a flat array in row-major order:
• index = row * grid_size + col
• row = index / grid_size (integer division)
• col = index % grid_size
A tile labeled t belongs on index t-1. The empty cell belongs on the last index.

Example 3x3 board:
  index:   0 1 2        1  2  3
           3 4 5   →    4  ·  5
           6 7 8        7  8  6
Here the empty cell is at index 4; indexes 1, 3, 5, 7 are clickable.

🤖 AI AGENTS - SOLVING STRATEGY:

1. **Read the board carefully**: parse the grid position by position and map
   where each tile currently sits versus where it belongs (tile t → index t-1).

2. **Solve row by row**: place the top row first, then the next, locking rows
   as you go. Never break a completed row to move a lower tile.

3. **Last two rows**: solve them column by column from the left. The final
   2x3 (or 2x2) block falls into place by cycling tiles around the empty cell.

4. **Corner tiles need setup**: the last tile of a row cannot be pushed
   straight in. Park it below its goal, bring the row neighbor in, then rotate
   both into place.

5. **Think in empty-cell moves**: only tiles adjacent to the empty cell can
   move. Plan where the empty cell must travel, not just where tiles should go.

⚡ CLOCK MANAGEMENT:
- The clock is already running when you get the board, so plan quickly
- Use get_board to check time_left_seconds between sequences
- A timed-out board ignores clicks; restart (or click_tile with restart=true) begins a fresh attempt

🎮 API USAGE BEST PRACTICES:
- Plan a full click sequence, then use bulk_click rather than one click at a time
- bulk_click stops early once the board is solved or the clock runs out
- Rejected clicks inside a bulk sequence do not stop it, but they waste nothing except the attempt
- Use describe_tile to verify adjacency before committing a long sequence
- Use get_history to audit what actually happened when a plan goes wrong

CLICK COMMANDS:
- click_tile: single click by flat index
- bulk_click: a whole sequence of indexes in one call
- restart parameter available on both for fresh starts

DIFFICULTY TIERS:
- easy: 3x3 grid, 15:00 budget - 8 tiles, good for warming up
- medium: 4x4 grid, 10:00 budget - the classic 15-puzzle
- hard: 5x5 grid, 05:00 budget - 24 tiles against a short clock
- JSON config files can define further variants

LEVELS:
- advance_level on a solved board reshuffles at the same difficulty and
  increments the level counter; cumulative click history is preserved

SESSION MANAGEMENT:
- Multiple puzzle sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent boards, clocks, and configuration
- Use session-specific tools for multi-game management

Remember: every shuffled board this server deals is solvable. If you seem
stuck, the board is not broken; re-plan the empty cell's route.

Good luck sliding! 🧩`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	indexRaw, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}
	index := int(indexRaw)

	// Get the current game state to access the board
	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check bounds
	cells := len(state.Board)
	if index < 0 || index >= cells {
		return mcp.NewToolResultError(fmt.Sprintf("Index %d is out of range. The board has %d cells (0-%d)",
			index, cells, cells-1)), nil
	}

	tile := state.Board[index]
	pos := engine.PositionOf(index, state.GridSize)

	var tileChar string
	var tileType string
	var clickable bool
	var description string

	if tile == engine.Empty {
		tileChar = "·"
		tileType = "Empty cell"
		description = "The one unoccupied cell; clicks here are recorded but move nothing"
	} else {
		tileChar = strconv.Itoa(int(tile))
		goal := engine.PositionOf(int(tile)-1, state.GridSize)
		if int(tile)-1 == index {
			tileType = "Tile (in place)"
			description = fmt.Sprintf("Tile %d already sits on its goal cell", tile)
		} else {
			tileType = "Tile (misplaced)"
			description = fmt.Sprintf("Tile %d belongs at index %d (row %d, col %d)",
				tile, int(tile)-1, goal.Row, goal.Col)
		}
		terminal := state.Phase == engine.PhaseSolved || state.Phase == engine.PhaseTimedOut
		clickable = !terminal && engine.Adjacent(index, state.EmptyIndex, state.GridSize)
	}

	result := fmt.Sprintf(`Cell at index %d (row %d, col %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Tile: %s
Type: %s
Clickable: %v
Description: %s

%s`,
		index, pos.Row, pos.Col,
		tileChar,
		tileType,
		clickable,
		description,
		getTileReminder(tile, clickable, &state))

	return mcp.NewToolResultText(result), nil
}

func getTileReminder(tile engine.Tile, clickable bool, state *engine.GameState) string {
	switch {
	case tile == engine.Empty:
		return "The empty cell never moves on its own; a neighbor slides into it."
	case clickable:
		return "✅ This tile shares an edge with the empty cell. Clicking it slides it over right now."
	case state.Phase == engine.PhaseSolved:
		return "The board is solved. Clicks are ignored until a restart or advance_level."
	case state.Phase == engine.PhaseTimedOut:
		return "The clock has run out. Clicks are ignored until a restart."
	default:
		return "⚠️ Not adjacent to the empty cell. Clicking it raises the error signal and moves nothing."
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header (include cumulative total clicks)
	result.WriteString(fmt.Sprintf("Moves: %d | Clock: %s | Left: %s | Level: %d | Phase: %s | Clicks: %d\n\n",
		state.Moves, state.Clock, engine.FormatElapsed(state.TimeLeft),
		state.Level, state.Phase, state.TotalClicks))

	// Board
	result.WriteString(formatBoard(state))

	// Decision aids
	if state.ScrambleLevel != "" {
		result.WriteString(fmt.Sprintf("\nMisplaced: %d | Scramble: %s\n", state.Misplaced, state.ScrambleLevel))
	}
	if clickable := computeClickable(state); len(clickable) > 0 {
		parts := make([]string, 0, len(clickable))
		for _, idx := range clickable {
			parts = append(parts, fmt.Sprintf("index %d (tile %d)", idx, state.Board[idx]))
		}
		result.WriteString("Clickable: ")
		result.WriteString(strings.Join(parts, ", "))
		result.WriteString("\n")
	}

	// Status
	if state.Solved {
		result.WriteString("\n🎉 SOLVED!")
	} else if state.TimedOut {
		result.WriteString("\n⏰ TIME'S UP")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// formatBoard renders the grid with aligned tile numbers and · for the empty
// cell.
func formatBoard(state *engine.GameState) string {
	size := state.GridSize
	if size <= 0 || len(state.Board) != size*size {
		return "(board unavailable)\n"
	}

	var b strings.Builder
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			tile := state.Board[row*size+col]
			if tile == engine.Empty {
				b.WriteString("  ·")
			} else {
				b.WriteString(fmt.Sprintf("%3d", int(tile)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// computeClickable returns the indexes whose tiles can slide right now
func computeClickable(state *engine.GameState) []int {
	if state == nil || state.Phase == engine.PhaseSolved || state.Phase == engine.PhaseTimedOut {
		return []int{}
	}
	var res []int
	for i := range state.Board {
		if state.Board[i] == engine.Empty {
			continue
		}
		if engine.Adjacent(i, state.EmptyIndex, state.GridSize) {
			res = append(res, i)
		}
	}
	return res
}

func formatClickResult(result *service.ClickResult) string {
	response := ""
	if result.Accepted {
		response = "✓ Click accepted\n"
	} else {
		response = "✗ Click rejected\n"
	}

	// Compact step summary (if available)
	if result.Step != nil {
		s := result.Step
		response += fmt.Sprintf("Step: tile %d index %d (%d,%d)→(%d,%d)\n",
			s.Tile, s.Index, s.From.Row, s.From.Col, s.To.Row, s.To.Col)
	}

	// Failure diagnostic (if available)
	if result.Rejected != nil {
		r := result.Rejected
		if r.Tile != engine.Empty {
			response += fmt.Sprintf("Blocked: index %d tile=%d (%s)\n", r.Index, r.Tile, r.Reason)
		} else {
			response += fmt.Sprintf("Blocked: index %d (%s)\n", r.Index, r.Reason)
		}
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkClickResult(sessionID string, result *service.BulkClickResult) string {
	var b strings.Builder

	// Session header
	gridSize := 0
	configName := ""
	if result.GameState != nil {
		gridSize = result.GameState.GridSize
		configName = result.GameState.ConfigName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Config: %s • Grid: %dx%d\n",
		sessionID, configName, gridSize, gridSize))

	// Bulk summary
	b.WriteString(fmt.Sprintf("Executed %d/%d clicks, %d accepted\n",
		result.ClicksExecuted, result.RequestedClicks, result.ClicksAccepted))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the per-call limit of %d\n", result.Limit))
	}
	if result.StopReasonCode != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StopReasonCode))
	}
	b.WriteString(fmt.Sprintf("Misplaced: %d→%d\n", result.StartMisplaced, result.EndMisplaced))

	// Events (keep as-is, concise)
	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	// Per-click trace for this call
	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, step := range result.Steps {
			b.WriteString(formatBulkStepLine(step))
		}
	}

	// Possible clicks from final state
	if len(result.PossibleClicks) > 0 {
		parts := make([]string, 0, len(result.PossibleClicks))
		for _, idx := range result.PossibleClicks {
			parts = append(parts, strconv.Itoa(idx))
		}
		b.WriteString("\nPossible clicks: ")
		b.WriteString(strings.Join(parts, ","))
		b.WriteString("\n")
	}

	// Full state at the end (kept for compatibility)
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

// formatBulkStepLine renders a single compact step line
func formatBulkStepLine(step service.BulkStep) string {
	status := "✗"
	if step.Accepted {
		status = "✓"
	}
	line := fmt.Sprintf("%d. index %d tile=%d %s", step.Idx+1, step.Index, step.Tile, status)
	if step.Solved {
		line += " (solved)"
	}
	if step.TimedOut {
		line += " (timed out)"
	}
	return line + "\n"
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Click History (Page %d/%d) — Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalClicks)

	for _, click := range history.Clicks {
		result += formatHistoryLine(click.ClickNumber, click)
	}

	return result
}

func formatHistoryLine(num int, entry engine.ClickHistoryEntry) string {
	status := "✓"
	if !entry.Accepted {
		status = "✗"
	}
	line := fmt.Sprintf("%d. index %d tile=%d %s", num, entry.Index, entry.Tile, status)
	if entry.Signal != "" {
		line += fmt.Sprintf(" [%s]", entry.Signal)
	} else if !entry.Accepted {
		line += " [silent]"
	}
	return line + "\n"
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	clicks := state.CurrentClicks
	total := state.CurrentClicksCount
	header := fmt.Sprintf("Current Board Segment — Clicks: %d\n\n", total)
	if len(clicks) == 0 {
		return header + "(no clicks on the current board)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, click := range clicks {
		// i is zero-based within the segment
		b.WriteString(formatHistoryLine(i+1, click))
	}
	return b.String()
}
