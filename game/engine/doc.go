// Package engine provides the core game logic for the sliding tile puzzle.
//
// The package owns every rule of the game:
//   - Solvable board generation with level-biased shuffling
//   - Click validation against the empty cell's neighborhood
//   - Solved detection after every accepted move
//   - The session state machine (idle, running, solved, timed out)
//   - Difficulty tiers, time budgets, and configuration validation
//
// Core Types:
//
// Engine is the contract for puzzle operations and PuzzleEngine its only
// implementation. GameState is the full session snapshot handed to every
// surface; GameConfig describes a difficulty tier, either built in or
// loaded from a JSON file.
//
// Usage:
//
//	config, err := engine.BuiltinConfig(engine.Medium)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle.Initialize()
//	outcome := puzzle.ClickTile(5)
//	state := puzzle.GetState()
//
// Game Rules:
//
// Players click tiles on an N by N board holding the labels 1..N*N-1 and one
// empty cell. A clicked tile slides into the empty cell when the two are
// orthogonal neighbors. The board starts from a shuffle that is always
// solvable; the session runs against a per-tier time budget, ticking once a
// second. Restoring ascending order solves the run; exhausting the budget
// times it out. Solved runs can advance to the next level, which reuses the
// tier but shuffles with a wider swap window.
package engine
