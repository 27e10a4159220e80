package engine

import "fmt"

// FormatElapsed renders a second count as MM:SS
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// CountMisplaced counts the tiles sitting away from their target cell. The
// empty cell is not a tile and never counts.
func CountMisplaced(b Board) int {
	count := 0
	for i, t := range b {
		if t == Empty {
			continue
		}
		if TargetIndex(t) != i {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two flat
// indexes on a size-wide grid
func ManhattanDistance(a, b, size int) int {
	dr := a/size - b/size
	if dr < 0 {
		dr = -dr
	}
	dc := a%size - b%size
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// TotalDisplacement sums the Manhattan distance of every tile from its target
// cell
func TotalDisplacement(b Board, size int) int {
	total := 0
	for i, t := range b {
		if t == Empty {
			continue
		}
		total += ManhattanDistance(i, TargetIndex(t), size)
	}
	return total
}

// ScrambleLevel buckets a board by how far its tiles have wandered from home,
// as average displacement per tile
func ScrambleLevel(b Board, size int) string {
	if len(b) == 0 {
		return ""
	}
	tileCount := size*size - 1
	if tileCount <= 0 {
		return ""
	}

	total := TotalDisplacement(b, size)
	if total == 0 {
		return "settled"
	}

	avg := float64(total) / float64(tileCount)
	switch {
	case avg < 1.0:
		return "light"
	case avg < 2.0:
		return "moderate"
	default:
		return "heavy"
	}
}
