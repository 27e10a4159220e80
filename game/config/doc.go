// Package config resolves difficulty configurations for the sliding puzzle.
//
// The manager sits between the service layer and two config sources:
//   - JSON tier files under the configs directory
//   - The built-in easy/medium/hard tiers compiled into the engine
// Loaded configs are validated once and cached for the life of the process.
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Grid size (3x3 up to 5x5)
//   - Time budget in seconds
//   - An optional shuffle seed for reproducible boards
//   - Message templates for the game's status line
//
// Resolution Order:
//
// A name is resolved against the cache first, then against
// <configDir>/<name>.json, then against the built-in tiers (easy, medium,
// hard). A file named after a tier overrides the built-in, which is how
// deployments retune the stock difficulties without a rebuild.
//
// Usage:
//
//	manager := config.NewManager("configs")
//
//	gameConfig, err := manager.LoadConfig("medium")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	defaultConfig := manager.GetDefault()
//	names, err := manager.ListConfigs()
package config
