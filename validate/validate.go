// Command validate provides a small CLI that validates puzzle configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid size and time budget ranges
//   - Required message keys and their format verbs
//   - Shuffle self-test: sample boards at several levels keep the empty cell
//     last, hold exactly the tiles they should, and land on even inversion
//     parity
//
// The built-in difficulty tiers get the same shuffle self-test, so the tool
// is useful even with an empty config directory.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/slidepuzzle/game/engine"
)

// Config mirrors the JSON schema for a puzzle configuration.
type Config struct {
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	GridSize          int               `json:"grid_size"`
	TimeBudgetSeconds int               `json:"time_budget_seconds"`
	Seed              int64             `json:"seed,omitempty"`
	Messages          map[string]string `json:"messages"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// shuffleSamples is how many boards the self-test draws per level.
const shuffleSamples = 40

// shuffleLevels are the bias levels the self-test exercises; level 5 uses the
// widest swap window the generator reaches in normal play.
var shuffleLevels = []int{1, 2, 5}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks, range checks, message validation, and a
// shuffle self-test at the configured grid size.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Validate required fields
	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "name is required")
	}
	if config.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "description is required")
	}

	// Validate ranges
	if config.GridSize < engine.MinGridSize || config.GridSize > engine.MaxGridSize {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("grid_size must be between %d and %d, got %d",
			engine.MinGridSize, engine.MaxGridSize, config.GridSize))
	}
	if config.TimeBudgetSeconds < engine.MinTimeBudget || config.TimeBudgetSeconds > engine.MaxTimeBudget {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("time_budget_seconds must be between %d and %d, got %d",
			engine.MinTimeBudget, engine.MaxTimeBudget, config.TimeBudgetSeconds))
	}

	// Validate messages
	requiredMessages := []string{"welcome", "solved", "timed_out"}
	for _, msg := range requiredMessages {
		if _, exists := config.Messages[msg]; !exists {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required message: %s", msg))
		}
	}

	// Messages carrying a counter need the %d verb
	formatMessages := []string{"solved", "level_up", "status"}
	for _, msg := range formatMessages {
		if text, exists := config.Messages[msg]; exists && !strings.Contains(text, "%d") {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Message %s must contain %%d, got %q", msg, text))
		}
	}

	// Shuffle self-test at the configured grid size
	if result.Valid {
		shuffleResult := validateShuffle(config.GridSize, config.Seed)
		if !shuffleResult.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, shuffleResult.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Time budget: %s", engine.FormatElapsed(config.TimeBudgetSeconds)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Messages: %d defined", len(config.Messages)))
		if config.Seed != 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Deterministic seed: %d", config.Seed))
		}
	}

	return result
}

// validateShuffle draws sample boards across the self-test levels and checks
// each one structurally and for even inversion parity. A non-zero seed makes
// the samples reproduce the configured deterministic boards; otherwise a
// fixed seed keeps the report stable between runs.
func validateShuffle(gridSize int, seed int64) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if gridSize < engine.MinGridSize || gridSize > engine.MaxGridSize {
		result.Valid = false
		result.Errors = append(result.Errors, "Cannot run shuffle self-test: grid_size out of range")
		return result
	}

	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	checked := 0
	for _, level := range shuffleLevels {
		for i := 0; i < shuffleSamples; i++ {
			board := engine.GenerateFrom(rng, gridSize, level)

			if err := engine.ValidateBoard(board, gridSize); err != nil {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Shuffle failure at level %d: %v", level, err))
				return result
			}
			if board[len(board)-1] != engine.Empty {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Shuffle failure at level %d: empty cell not in last position", level))
				return result
			}
			if board.Inversions()%2 != 0 {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Shuffle failure at level %d: odd inversion parity on %v", level, board))
				return result
			}
			checked++
		}
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Shuffle: %d sample boards across levels %v pass structure and parity", checked, shuffleLevels))
	return result
}

// printResult renders one validation report section.
func printResult(result ValidationResult) {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
	} else {
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Println("  ❌ " + err)
			}
		}
	}
}

// main scans ../configs for *.json files and validates each one, then runs
// the shuffle self-test on the built-in tiers. It exits non-zero if anything
// is invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)
		printResult(result)
		if !result.Valid {
			allValid = false
		}
	}

	for _, d := range engine.Difficulties() {
		tier, err := engine.TierFor(d)
		if err != nil {
			fmt.Printf("Error resolving tier %s: %v\n", d, err)
			os.Exit(1)
		}

		result := validateShuffle(tier.GridSize, 0)
		result.File = fmt.Sprintf("built-in %s (%dx%d)", d, tier.GridSize, tier.GridSize)
		printResult(result)
		if !result.Valid {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
