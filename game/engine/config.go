package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TierFor resolves a built-in difficulty to its tier. Unknown difficulties
// fail fast with the valid set in the error rather than falling back to a
// default tier.
func TierFor(d Difficulty) (Tier, error) {
	tier, ok := tiers[d]
	if !ok {
		return Tier{}, fmt.Errorf("unknown difficulty %q (valid: %s, %s, %s)", d, Easy, Medium, Hard)
	}
	return tier, nil
}

// Difficulties returns the built-in difficulty names in ascending tier order
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ValidateGameConfig validates a puzzle configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}

	// Validate time budget
	if config.TimeBudgetSeconds < MinTimeBudget || config.TimeBudgetSeconds > MaxTimeBudget {
		return fmt.Errorf("config validation: time_budget_seconds must be between %d and %d, got %d",
			MinTimeBudget, MaxTimeBudget, config.TimeBudgetSeconds)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Solved == "" {
		return fmt.Errorf("config validation: messages.solved is required")
	}
	if config.Messages.TimedOut == "" {
		return fmt.Errorf("config validation: messages.timed_out is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Solved, "%d") {
		return fmt.Errorf("config validation: messages.solved must contain %%d for the move count")
	}
	if config.Messages.LevelUp != "" && !strings.Contains(config.Messages.LevelUp, "%d") {
		return fmt.Errorf("config validation: messages.level_up must contain %%d for the level")
	}
	if config.Messages.Status != "" && !strings.Contains(config.Messages.Status, "%d") {
		return fmt.Errorf("config validation: messages.status must contain %%d for the move count")
	}

	return nil
}

// BuiltinConfig returns the packaged configuration for a built-in difficulty
// tier. It fails fast on unknown difficulties.
func BuiltinConfig(d Difficulty) (*GameConfig, error) {
	tier, err := TierFor(d)
	if err != nil {
		return nil, err
	}

	config := &GameConfig{
		Name:              string(d),
		Description:       fmt.Sprintf("%dx%d board with a %s budget", tier.GridSize, tier.GridSize, FormatElapsed(tier.TimeBudgetSeconds)),
		GridSize:          tier.GridSize,
		TimeBudgetSeconds: tier.TimeBudgetSeconds,
	}
	config.Messages.Welcome = "Slide the tiles to restore the order!"
	config.Messages.Solved = "Solved in %d moves!"
	config.Messages.TimedOut = "Time's up! Restart to try again."
	config.Messages.CantMove = "That tile is not next to the empty cell"
	config.Messages.LevelUp = "Level %d! The shuffle gets wilder."
	config.Messages.Status = "Moves: %d"
	return config, nil
}

// DefaultConfig returns the easy tier configuration
func DefaultConfig() *GameConfig {
	config, _ := BuiltinConfig(Easy)
	return config
}

// LoadGameConfig loads a puzzle configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		// If filename starts with "configs/", replace with CONFIG_DIR
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a puzzle configuration by name from the configs
// directory, falling back to the built-in tiers when no file matches.
func LoadConfigByName(configName string) (*GameConfig, error) {
	name := strings.TrimSuffix(configName, ".json")

	configPath := filepath.Join("configs", name+".json")
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		configPath = filepath.Join(configDir, name+".json")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if config, berr := BuiltinConfig(Difficulty(name)); berr == nil {
			return config, nil
		}
		return nil, fmt.Errorf("config file '%s' not found", name+".json")
	}

	// Load and parse the config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %v", name, err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", name, err)
	}

	// Validate the config
	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %v", name, err)
	}

	return &config, nil
}

// IdleStateFromConfig creates the pre-initialization state for a
// configuration. The board stays empty until Initialize shuffles one.
func IdleStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	return &GameState{
		Board:              Board{},
		GridSize:           config.GridSize,
		EmptyIndex:         -1,
		Moves:              0,
		Elapsed:            0,
		TimeBudget:         config.TimeBudgetSeconds,
		TimeLeft:           config.TimeBudgetSeconds,
		Clock:              FormatElapsed(0),
		Level:              1,
		Phase:              PhaseIdle,
		Message:            config.Messages.Welcome,
		ConfigName:         config.Name,
		ClickHistory:       []ClickHistoryEntry{},
		TotalClicks:        0,
		CurrentClicks:      []ClickHistoryEntry{},
		CurrentClicksCount: 0,
	}
}
