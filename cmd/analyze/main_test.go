package main

import (
	"math/rand"
	"os"
	"testing"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "analyze_config_*.json")
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

func TestSampleShuffles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	stats := sampleShuffles(rng, 3, 2, 50)

	if stats.Samples != 50 {
		t.Errorf("Expected 50 samples, got %d", stats.Samples)
	}

	if stats.EvenParity != 50 {
		t.Errorf("Expected every board to carry even parity, got %d of %d", stats.EvenParity, stats.Samples)
	}

	if stats.ParityRate() != 100 {
		t.Errorf("Expected parity rate 100, got %.1f", stats.ParityRate())
	}

	if stats.AvgDisplacement() <= 0 {
		t.Errorf("Expected shuffled boards to displace tiles, got avg %.2f", stats.AvgDisplacement())
	}

	total := 0
	for _, n := range stats.Buckets {
		total += n
	}
	if total != 50 {
		t.Errorf("Expected buckets to account for every sample, got %d", total)
	}
}

func TestShuffleStats_Empty(t *testing.T) {
	var stats ShuffleStats

	if stats.AvgInversions() != 0 {
		t.Errorf("Expected 0 avg inversions, got %.2f", stats.AvgInversions())
	}

	if stats.AvgDisplacement() != 0 {
		t.Errorf("Expected 0 avg displacement, got %.2f", stats.AvgDisplacement())
	}

	if stats.ParityRate() != 0 {
		t.Errorf("Expected 0 parity rate, got %.2f", stats.ParityRate())
	}

	if stats.bucketSummary() != "no samples" {
		t.Errorf("Expected 'no samples', got %q", stats.bucketSummary())
	}
}

func TestBucketSummary_Order(t *testing.T) {
	stats := ShuffleStats{
		Samples: 100,
		Buckets: map[string]int{"heavy": 50, "light": 25, "moderate": 25},
	}

	got := stats.bucketSummary()
	want := "light 25%, moderate 25%, heavy 50%"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestParityRate(t *testing.T) {
	stats := ShuffleStats{Samples: 200, EvenParity: 150}

	if stats.ParityRate() != 75 {
		t.Errorf("Expected parity rate 75, got %.1f", stats.ParityRate())
	}
}

func TestWalkStats_AcceptRate(t *testing.T) {
	tests := []struct {
		clicks   int
		accepted int
		expected float64
	}{
		{200, 50, 25},
		{100, 100, 100},
		{0, 0, 0},
	}

	for _, test := range tests {
		walk := WalkStats{Clicks: test.clicks, Accepted: test.accepted}
		if got := walk.AcceptRate(); got != test.expected {
			t.Errorf("AcceptRate with %d/%d = %.1f, expected %.1f", test.accepted, test.clicks, got, test.expected)
		}
	}
}

func TestRandomWalk(t *testing.T) {
	config, err := engine.BuiltinConfig(engine.Easy)
	if err != nil {
		t.Fatalf("BuiltinConfig failed: %v", err)
	}
	config.Seed = 42

	walk, err := randomWalk(config, 100)
	if err != nil {
		t.Fatalf("randomWalk failed: %v", err)
	}

	if walk.Clicks < 1 || walk.Clicks > 100 {
		t.Errorf("Expected between 1 and 100 recorded clicks, got %d", walk.Clicks)
	}

	if walk.Accepted < 1 {
		t.Error("Expected some blind clicks to land next to the empty cell")
	}

	if walk.Accepted > walk.Clicks {
		t.Errorf("Accepted %d exceeds recorded clicks %d", walk.Accepted, walk.Clicks)
	}

	if walk.EndMisplaced < 0 || walk.EndMisplaced > 8 {
		t.Errorf("Misplaced count %d out of range for a 3x3 board", walk.EndMisplaced)
	}
}

func TestRandomWalk_InvalidConfig(t *testing.T) {
	config := &engine.GameConfig{GridSize: 99}

	if _, err := randomWalk(config, 10); err == nil {
		t.Error("Expected an error for an invalid config")
	}
}

func TestAnalyzeTier_Builtins(t *testing.T) {
	for _, d := range engine.Difficulties() {
		if !analyzeTier(d) {
			t.Errorf("Expected tier %s to pass analysis", d)
		}
	}
}

func TestAnalyzeTier_Unknown(t *testing.T) {
	if analyzeTier(engine.Difficulty("legendary")) {
		t.Error("Expected an unknown tier to fail analysis")
	}
}

func TestAnalyzeConfig_ValidFile(t *testing.T) {
	path := writeTempConfig(t, `{
		"name": "Test Tier",
		"description": "A 3x3 test tier",
		"grid_size": 3,
		"time_budget_seconds": 300,
		"seed": 11,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Solved in %d moves!",
			"timed_out": "Time's up!",
			"cant_move": "Cannot move",
			"level_up": "Level %d!",
			"status": "Moves: %d"
		}
	}`)

	if !analyzeConfig(path) {
		t.Error("Expected a valid config to pass analysis")
	}
}

func TestAnalyzeConfig_MissingFile(t *testing.T) {
	if analyzeConfig("/non/existent/file.json") {
		t.Error("Expected a missing file to fail analysis")
	}
}

func TestAnalyzeConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name": "test", invalid json}`)

	if analyzeConfig(path) {
		t.Error("Expected invalid JSON to fail analysis")
	}
}

func TestAnalyzeConfig_FailsValidation(t *testing.T) {
	path := writeTempConfig(t, `{
		"name": "Broken",
		"description": "Grid too large",
		"grid_size": 9,
		"time_budget_seconds": 300,
		"messages": {
			"welcome": "Welcome!",
			"solved": "Solved in %d moves!",
			"timed_out": "Time's up!"
		}
	}`)

	if analyzeConfig(path) {
		t.Error("Expected an out-of-range grid size to fail analysis")
	}
}
