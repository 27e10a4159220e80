package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test_config_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	validConfig := `{
		"name": "Test Config",
		"description": "Test configuration",
		"grid_size": 4,
		"time_budget_seconds": 300,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Solved in %d moves!",
			"timed_out": "Time's up!",
			"cant_move": "Can't move!",
			"level_up": "Level %d!",
			"status": "Moves: %d"
		}
	}`

	path := writeTempConfig(t, validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Errorf("Expected valid config, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(path) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
	}

	foundShuffle := false
	for _, info := range result.Errors {
		if contains(info, "✓ Shuffle:") {
			foundShuffle = true
		}
	}
	if !foundShuffle {
		t.Error("Expected shuffle self-test summary for a valid config")
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name": "test", invalid json}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid config due to bad JSON")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid JSON") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Failed to read file") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateConfig_GridSizeOutOfRange(t *testing.T) {
	config := `{
		"name": "Test",
		"description": "Test",
		"grid_size": 9,
		"time_budget_seconds": 300,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Solved in %d moves!",
			"timed_out": "Time's up!"
		}
	}`

	result := validateConfig(writeTempConfig(t, config))
	if result.Valid {
		t.Error("Expected invalid config due to grid size")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "grid_size must be between") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'grid_size must be between' error")
	}
}

func TestValidateConfig_TimeBudgetOutOfRange(t *testing.T) {
	config := `{
		"name": "Test",
		"description": "Test",
		"grid_size": 3,
		"time_budget_seconds": 5,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Solved in %d moves!",
			"timed_out": "Time's up!"
		}
	}`

	result := validateConfig(writeTempConfig(t, config))
	if result.Valid {
		t.Error("Expected invalid config due to time budget")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "time_budget_seconds must be between") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'time_budget_seconds must be between' error")
	}
}

func TestValidateConfig_MissingMessages(t *testing.T) {
	config := `{
		"name": "Test",
		"description": "Test",
		"grid_size": 3,
		"time_budget_seconds": 300,
		"messages": {
			"welcome": "Welcome!"
		}
	}`

	result := validateConfig(writeTempConfig(t, config))
	if result.Valid {
		t.Error("Expected invalid config due to missing messages")
	}

	foundSolved := false
	foundTimedOut := false
	for _, err := range result.Errors {
		if contains(err, "Missing required message: solved") {
			foundSolved = true
		}
		if contains(err, "Missing required message: timed_out") {
			foundTimedOut = true
		}
	}
	if !foundSolved {
		t.Error("Expected 'Missing required message: solved' error")
	}
	if !foundTimedOut {
		t.Error("Expected 'Missing required message: timed_out' error")
	}
}

func TestValidateConfig_MissingFormatVerb(t *testing.T) {
	config := `{
		"name": "Test",
		"description": "Test",
		"grid_size": 3,
		"time_budget_seconds": 300,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Nice work!",
			"timed_out": "Time's up!",
			"status": "Keep going"
		}
	}`

	result := validateConfig(writeTempConfig(t, config))
	if result.Valid {
		t.Error("Expected invalid config due to missing format verbs")
	}

	foundSolved := false
	foundStatus := false
	for _, err := range result.Errors {
		if contains(err, "Message solved must contain %d") {
			foundSolved = true
		}
		if contains(err, "Message status must contain %d") {
			foundStatus = true
		}
	}
	if !foundSolved {
		t.Error("Expected solved format verb error")
	}
	if !foundStatus {
		t.Error("Expected status format verb error")
	}
}

func TestValidateShuffle_AllSizes(t *testing.T) {
	for size := 3; size <= 5; size++ {
		result := validateShuffle(size, 0)
		if !result.Valid {
			t.Errorf("Expected valid shuffle at size %d, got errors: %v", size, result.Errors)
		}
	}
}

func TestValidateShuffle_DeterministicSeed(t *testing.T) {
	result := validateShuffle(4, 42)
	if !result.Valid {
		t.Errorf("Expected valid shuffle with seed, got errors: %v", result.Errors)
	}
}

func TestValidateShuffle_GridOutOfRange(t *testing.T) {
	result := validateShuffle(2, 0)
	if result.Valid {
		t.Error("Expected invalid result for out-of-range grid size")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "grid_size out of range") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'grid_size out of range' error")
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
