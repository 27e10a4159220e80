package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/slidepuzzle/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", Version)
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()

	if cmd.Name != "slidepuzzle" {
		t.Errorf("Name = %q, want slidepuzzle", cmd.Name)
	}
	if cmd.Version != Version {
		t.Errorf("Version = %q, want %q", cmd.Version, Version)
	}
	if cmd.DefaultCommand != "serve" {
		t.Errorf("DefaultCommand = %q, want serve", cmd.DefaultCommand)
	}

	want := map[string][]string{
		"serve": {"server", "http"},
		"mcp":   {"stdio-mcp", "mcp-stdio"},
		"tui":   nil,
		"ssh":   nil,
	}
	found := make(map[string]bool)
	for _, sub := range cmd.Commands {
		aliases, ok := want[sub.Name]
		if !ok {
			t.Errorf("Unexpected command %q", sub.Name)
			continue
		}
		found[sub.Name] = true
		for _, alias := range aliases {
			match := false
			for _, a := range sub.Aliases {
				if a == alias {
					match = true
				}
			}
			if !match {
				t.Errorf("Command %q missing alias %q", sub.Name, alias)
			}
		}
	}
	for name := range want {
		if !found[name] {
			t.Errorf("Missing command %q", name)
		}
	}
}

func TestInitializeServices(t *testing.T) {
	gameService, hub := initializeServices(t.TempDir())
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if hub == nil {
		t.Fatal("Expected a WebSocket hub")
	}
	defer gameService.Close()

	// Built-in tiers work even with an empty config directory.
	info, err := gameService.CreateSession(context.Background(), "easy")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if info.GameState.GridSize != 3 {
		t.Errorf("GridSize = %d, want 3", info.GameState.GridSize)
	}
}

func TestMCPHTTPHandler_MethodNotAllowed(t *testing.T) {
	handler := mcpHTTPHandler(mcp.NewClient("http://127.0.0.1:1"))

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestMCPHTTPHandler_ToolsList(t *testing.T) {
	// tools/list is answered by the MCP server itself, no API round trip.
	handler := mcpHTTPHandler(mcp.NewClient("http://127.0.0.1:1"))

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	response := w.Body.String()
	for _, tool := range []string{"click_tile", "bulk_click", "create_session", "game_instructions"} {
		if !strings.Contains(response, tool) {
			t.Errorf("tools/list response missing %q", tool)
		}
	}
}
