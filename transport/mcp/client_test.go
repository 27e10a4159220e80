package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
	"github.com/wricardo/mcp-training/slidepuzzle/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":     "ab12",
		"moves":  float64(3),
		"solved": false,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/sessions/zz99", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}

	if !strings.Contains(err.Error(), "session not found") {
		t.Errorf("Expected server error message to surface, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID:         "ab12",
			ConfigName: "easy",
			GameState:  testState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(ctx, request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", resultStr.Text)
	}
}

func TestClient_clickTile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/click" {
			t.Errorf("Expected POST /api/sessions/ab12/click, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["index"] != float64(5) {
			t.Errorf("Expected index 5 in body, got %v", body["index"])
		}

		resp := service.ClickResult{
			Accepted:  true,
			Signals:   []engine.Signal{engine.SignalMove},
			GameState: testState(),
			Step: &service.StepInfo{
				Index: 5, Tile: 5,
				From: engine.Position{Row: 1, Col: 2},
				To:   engine.Position{Row: 1, Col: 1},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "click_tile",
			Arguments: map[string]interface{}{
				"session_id": "ab12",
				"index":      float64(5),
				"intent":     "slide tile 5 left toward its goal",
			},
		},
	}

	result, err := client.handleClickTile(context.Background(), request)
	if err != nil {
		t.Fatalf("clickTile failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "✓ Click accepted") {
		t.Errorf("Expected acceptance marker, got: %s", resultStr.Text)
	}
	if !strings.Contains(resultStr.Text, "tile 5 index 5") {
		t.Errorf("Expected step summary, got: %s", resultStr.Text)
	}
}

func TestClient_clickTile_MissingIndex(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "click_tile",
			Arguments: map[string]interface{}{
				"session_id": "ab12",
			},
		},
	}

	result, err := client.handleClickTile(context.Background(), request)
	if err != nil {
		t.Fatalf("clickTile failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(resultStr.Text, "index is required") {
		t.Errorf("Expected missing-index error, got: %s", resultStr.Text)
	}
}

func TestFormatGameState(t *testing.T) {
	state := testState()

	result := formatGameState(state)

	expectedFields := []string{
		"Moves: 3",
		"Clock: 00:45",
		"Level: 1",
		"Phase: running",
		"  1   2   3",
		"  4   ·   5",
		"  7   8   6",
		"Clickable:",
		"Welcome!",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_Solved(t *testing.T) {
	state := testState()
	state.Board = engine.Board{1, 2, 3, 4, 5, 6, 7, 8, engine.Empty}
	state.EmptyIndex = 8
	state.Phase = engine.PhaseSolved
	state.Solved = true
	state.Message = "Solved it!"

	result := formatGameState(state)

	if !strings.Contains(result, "🎉 SOLVED!") {
		t.Errorf("Expected '🎉 SOLVED!' in result, got: %s", result)
	}
	if strings.Contains(result, "Clickable:") {
		t.Errorf("Solved board should list no clickable tiles, got: %s", result)
	}
}

func TestFormatGameState_TimedOut(t *testing.T) {
	state := testState()
	state.Phase = engine.PhaseTimedOut
	state.TimedOut = true
	state.Message = "Time's up!"

	result := formatGameState(state)

	if !strings.Contains(result, "⏰ TIME'S UP") {
		t.Errorf("Expected '⏰ TIME'S UP' in result, got: %s", result)
	}
}

func TestFormatClickResult_Rejected(t *testing.T) {
	clickResult := &service.ClickResult{
		Accepted: false,
		Signals:  []engine.Signal{engine.SignalError},
		Rejected: &service.RejectedInfo{
			Index:  0,
			Tile:   1,
			Reason: "tile is not adjacent to the empty cell",
		},
		GameState: testState(),
	}

	result := formatClickResult(clickResult)

	if !strings.Contains(result, "✗ Click rejected") {
		t.Errorf("Expected '✗ Click rejected' in result, got: %s", result)
	}
	if !strings.Contains(result, "not adjacent") {
		t.Errorf("Expected rejection reason in result, got: %s", result)
	}
}

func TestFormatBulkClickResult(t *testing.T) {
	bulkResult := &service.BulkClickResult{
		ClicksExecuted:  2,
		ClicksAccepted:  2,
		RequestedClicks: 3,
		StopReasonCode:  "solved",
		StartMisplaced:  2,
		EndMisplaced:    0,
		Solved:          true,
		GameState:       testState(),
		Steps: []service.BulkStep{
			{Idx: 0, Index: 5, Tile: 5, Accepted: true},
			{Idx: 1, Index: 8, Tile: 8, Accepted: true, Solved: true},
		},
		PossibleClicks: []int{5, 7},
	}

	result := formatBulkClickResult("ab12", bulkResult)

	expectedFields := []string{
		"Session: ab12",
		"Executed 2/3 clicks, 2 accepted",
		"Stopped: solved",
		"Misplaced: 2→0",
		"1. index 5 tile=5 ✓",
		"2. index 8 tile=8 ✓ (solved)",
		"Possible clicks: 5,7",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	history := &service.HistoryResponse{
		Clicks: []engine.ClickHistoryEntry{
			{Index: 5, Tile: 5, Accepted: true, Signal: engine.SignalMove, ClickNumber: 2},
			{Index: 0, Tile: 1, Accepted: false, Signal: engine.SignalError, ClickNumber: 1},
		},
		TotalClicks: 2,
		Page:        1,
		PageSize:    20,
		TotalPages:  1,
	}

	result := formatHistory(history)

	if !strings.Contains(result, "Click History (Page 1/1)") {
		t.Errorf("Expected history header, got: %s", result)
	}
	if !strings.Contains(result, "2. index 5 tile=5 ✓ [move]") {
		t.Errorf("Expected accepted entry line, got: %s", result)
	}
	if !strings.Contains(result, "1. index 0 tile=1 ✗ [error]") {
		t.Errorf("Expected rejected entry line, got: %s", result)
	}
}

func TestFormatHistoryLine_SilentClick(t *testing.T) {
	entry := engine.ClickHistoryEntry{Index: 4, Tile: engine.Empty, Accepted: false}

	line := formatHistoryLine(3, entry)

	if !strings.Contains(line, "[silent]") {
		t.Errorf("Expected silent marker for signal-less rejection, got: %s", line)
	}
}

func TestComputeClickable(t *testing.T) {
	state := testState()

	clickable := computeClickable(state)

	// Empty cell at index 4 of a 3x3 grid: neighbors are 1, 3, 5, 7.
	expected := []int{1, 3, 5, 7}
	if len(clickable) != len(expected) {
		t.Fatalf("Expected %d clickable indexes, got %v", len(expected), clickable)
	}
	for i, idx := range expected {
		if clickable[i] != idx {
			t.Errorf("clickable[%d] = %d, want %d", i, clickable[i], idx)
		}
	}
}

func TestClient_describeTile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(testState())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	tests := []struct {
		name     string
		index    float64
		expected []string
	}{
		{
			name:  "clickable misplaced tile",
			index: 5,
			// Tile 5 at index 5 is next to the empty cell at index 4.
			expected: []string{"Tile: 5", "misplaced", "Clickable: true", "belongs at index 4"},
		},
		{
			name:     "tile in place",
			index:    0,
			expected: []string{"Tile: 1", "in place", "Clickable: false"},
		},
		{
			name:     "empty cell",
			index:    4,
			expected: []string{"Tile: ·", "Empty cell", "Clickable: false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{
				Params: mcp.CallToolParams{
					Name: "describe_tile",
					Arguments: map[string]interface{}{
						"session_id": "ab12",
						"index":      tt.index,
					},
				},
			}

			result, err := client.handleDescribeTile(context.Background(), request)
			if err != nil {
				t.Fatalf("describeTile failed: %v", err)
			}

			resultStr, ok := result.Content[0].(mcp.TextContent)
			if !ok {
				t.Fatal("Expected text content in result")
			}

			for _, expected := range tt.expected {
				if !strings.Contains(resultStr.Text, expected) {
					t.Errorf("Expected %q in result, got: %s", expected, resultStr.Text)
				}
			}
		})
	}
}

func TestClient_describeTile_OutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(testState())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "describe_tile",
			Arguments: map[string]interface{}{
				"session_id": "ab12",
				"index":      float64(99),
			},
		},
	}

	result, err := client.handleDescribeTile(context.Background(), request)
	if err != nil {
		t.Fatalf("describeTile failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	if !strings.Contains(resultStr.Text, "out of range") {
		t.Errorf("Expected out-of-range error, got: %s", resultStr.Text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "game_instructions",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleGameInstructions(ctx, request)
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedContent := []string{
		"Slide Puzzle Game - Complete Instructions",
		"GAME OBJECTIVE:",
		"GAME MECHANICS:",
		"BOARD LEGEND:",
		"INDEX ARITHMETIC",
		"AI AGENTS - SOLVING STRATEGY:",
		"Solve row by row",
		"Last two rows",
		"CLOCK MANAGEMENT:",
		"API USAGE BEST PRACTICES:",
		"DIFFICULTY TIERS:",
		"SESSION MANAGEMENT:",
		"every shuffled board this server deals is solvable",
		"Good luck sliding!",
	}

	for _, content := range expectedContent {
		if !strings.Contains(resultStr.Text, content) {
			t.Errorf("Expected %q in instructions, got: %s", content, resultStr.Text)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}

// testState returns a 3x3 running board one slide away from interesting spots:
// the empty cell sits in the center.
func testState() *engine.GameState {
	return &engine.GameState{
		Board:       engine.Board{1, 2, 3, 4, engine.Empty, 5, 7, 8, 6},
		GridSize:    3,
		EmptyIndex:  4,
		Moves:       3,
		Elapsed:     45,
		TimeBudget:  900,
		TimeLeft:    855,
		Clock:       "00:45",
		Level:       1,
		Phase:       engine.PhaseRunning,
		Message:     "Welcome!",
		ConfigName:  "easy",
		TotalClicks: 4,
	}
}
