// Command analyze samples shuffled boards for every built-in difficulty tier
// and for each JSON config under configs/, then prints shuffle quality
// statistics: the inversion parity rate (anything under 100% even means
// unsolvable boards are being dealt), average inversions, average tile
// displacement, and the scramble bucket distribution. Each section closes
// with a seeded random click walk so the acceptance rate of blind clicking
// stays visible when the shuffle or the adjacency rule changes.
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

const (
	sampleBoards = 200
	walkClicks   = 300
	walkSeed     = 7
)

// biasLevels spans the shuffle's swap window from a fresh session to the
// widest spread a long level run reaches.
var biasLevels = []int{1, 2, 3, 5}

// bucketOrder keeps the scramble distribution printout stable across runs.
var bucketOrder = []string{"settled", "light", "moderate", "heavy"}

// ShuffleStats aggregates measurements over sampled boards at one grid size
// and bias level.
type ShuffleStats struct {
	Samples         int
	EvenParity      int
	SumInversions   int
	SumDisplacement int
	Buckets         map[string]int
}

// sampleShuffles deals boards from the given source and tallies parity,
// inversions, displacement, and scramble buckets.
func sampleShuffles(rng *rand.Rand, size, level, samples int) ShuffleStats {
	stats := ShuffleStats{Buckets: make(map[string]int)}
	for i := 0; i < samples; i++ {
		board := engine.GenerateFrom(rng, size, level)
		stats.Samples++
		if board.Inversions()%2 == 0 {
			stats.EvenParity++
		}
		stats.SumInversions += board.Inversions()
		stats.SumDisplacement += engine.TotalDisplacement(board, size)
		stats.Buckets[engine.ScrambleLevel(board, size)]++
	}
	return stats
}

// AvgInversions returns the mean inversion count per sampled board.
func (s ShuffleStats) AvgInversions() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.SumInversions) / float64(s.Samples)
}

// AvgDisplacement returns the mean total Manhattan displacement per board.
func (s ShuffleStats) AvgDisplacement() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.SumDisplacement) / float64(s.Samples)
}

// ParityRate returns the share of sampled boards with an even inversion
// count, as a percentage. Anything below 100 is a solvability bug.
func (s ShuffleStats) ParityRate() float64 {
	if s.Samples == 0 {
		return 0
	}
	return 100 * float64(s.EvenParity) / float64(s.Samples)
}

// bucketSummary renders the scramble distribution in a fixed bucket order,
// skipping empty buckets.
func (s ShuffleStats) bucketSummary() string {
	if s.Samples == 0 {
		return "no samples"
	}
	parts := make([]string, 0, len(bucketOrder))
	for _, name := range bucketOrder {
		if n := s.Buckets[name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d%%", name, 100*n/s.Samples))
		}
	}
	return strings.Join(parts, ", ")
}

// WalkStats summarizes a blind click walk over a freshly shuffled board.
type WalkStats struct {
	Clicks         int
	Accepted       int
	StartMisplaced int
	EndMisplaced   int
	Solved         bool
}

// AcceptRate returns the share of walk clicks the engine accepted, as a
// percentage.
func (w WalkStats) AcceptRate() float64 {
	if w.Clicks == 0 {
		return 0
	}
	return 100 * float64(w.Accepted) / float64(w.Clicks)
}

// randomWalk shuffles a fresh session from the config and fires uniformly
// random cell indexes at it.
func randomWalk(config *engine.GameConfig, clicks int) (WalkStats, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return WalkStats{}, err
	}
	eng.Initialize()

	stats := WalkStats{StartMisplaced: engine.CountMisplaced(eng.GetState().Board)}

	rng := rand.New(rand.NewSource(walkSeed))
	cells := config.GridSize * config.GridSize
	indexes := make([]int, clicks)
	for i := range indexes {
		indexes[i] = rng.Intn(cells)
	}

	for _, outcome := range eng.BulkClick(indexes) {
		stats.Clicks++
		if outcome.Accepted {
			stats.Accepted++
		}
	}

	stats.EndMisplaced = engine.CountMisplaced(eng.GetState().Board)
	stats.Solved = eng.IsSolved()
	return stats, nil
}

// printShuffleSection samples boards at every bias level for one grid size
// and reports the aggregate lines. Returns false when any sampled board has
// odd parity.
func printShuffleSection(size int) bool {
	rng := rand.New(rand.NewSource(int64(size)))
	ok := true

	for _, level := range biasLevels {
		stats := sampleShuffles(rng, size, level, sampleBoards)
		fmt.Printf("  Level %d: avg inversions %.1f, avg displacement %.1f (%s)\n",
			level, stats.AvgInversions(), stats.AvgDisplacement(), stats.bucketSummary())
		if stats.EvenParity != stats.Samples {
			ok = false
			fmt.Printf("  ⚠️  CRITICAL: %d of %d boards at level %d have odd parity and cannot be solved\n",
				stats.Samples-stats.EvenParity, stats.Samples, level)
		}
	}

	if ok {
		fmt.Printf("  ✅ All %d sampled boards carry even inversion parity\n", len(biasLevels)*sampleBoards)
	}
	return ok
}

// printWalk runs the blind click walk and reports one summary line.
func printWalk(config *engine.GameConfig) bool {
	walk, err := randomWalk(config, walkClicks)
	if err != nil {
		fmt.Printf("  ❌ Random walk failed: %v\n", err)
		return false
	}

	fmt.Printf("  Random walk: %d of %d blind clicks accepted (%.0f%%), misplaced %d at start, %d after\n",
		walk.Accepted, walk.Clicks, walk.AcceptRate(), walk.StartMisplaced, walk.EndMisplaced)
	if walk.Solved {
		fmt.Println("  Walk stumbled into a solve, clicks after the solve were dropped")
	}
	return true
}

// analyzeTier reports shuffle statistics for one built-in difficulty.
func analyzeTier(d engine.Difficulty) bool {
	tier, err := engine.TierFor(d)
	if err != nil {
		fmt.Printf("❌ Unknown tier %q: %v\n", d, err)
		return false
	}

	fmt.Printf("\n=== Tier %s (%dx%d, %s budget) ===\n",
		d, tier.GridSize, tier.GridSize, engine.FormatElapsed(tier.TimeBudgetSeconds))

	ok := printShuffleSection(tier.GridSize)

	config, err := engine.BuiltinConfig(d)
	if err != nil {
		fmt.Printf("  ❌ Built-in config unavailable: %v\n", err)
		return false
	}
	config.Seed = walkSeed
	if !printWalk(config) {
		return false
	}
	return ok
}

// analyzeConfig reports shuffle statistics for one JSON config file.
func analyzeConfig(filePath string) bool {
	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("❌ Failed to read %s: %v\n", filePath, err)
		return false
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("❌ Failed to parse %s: %v\n", filePath, err)
		return false
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		fmt.Printf("❌ %s failed validation: %v\n", filepath.Base(filePath), err)
		return false
	}

	fmt.Printf("\n=== Config %s (%dx%d, %s budget) ===\n",
		config.Name, config.GridSize, config.GridSize, engine.FormatElapsed(config.TimeBudgetSeconds))
	fmt.Printf("  %s\n", config.Description)
	if config.Seed != 0 {
		fmt.Printf("  Deterministic seed: %d\n", config.Seed)
	}

	ok := printShuffleSection(config.GridSize)
	if !printWalk(&config) {
		return false
	}
	return ok
}

func main() {
	failures := 0

	for _, d := range engine.Difficulties() {
		if !analyzeTier(d) {
			failures++
		}
	}

	files, err := filepath.Glob(filepath.Join("configs", "*.json"))
	if err == nil {
		for _, file := range files {
			if !analyzeConfig(file) {
				failures++
			}
		}
	}

	fmt.Println()
	if failures > 0 {
		fmt.Printf("❌ %d subject(s) reported problems\n", failures)
		os.Exit(1)
	}
	fmt.Println("✅ Every tier and config deals solvable boards")
}
