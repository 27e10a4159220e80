package engine

import "fmt"

// SolvedBoard returns the canonical layout for a grid width: labels 1 through
// size*size-1 in order, with the empty cell last.
func SolvedBoard(size int) Board {
	n := size * size
	board := make(Board, 0, n)
	for t := 1; t < n; t++ {
		board = append(board, Tile(t))
	}
	return append(board, Empty)
}

// Clone returns an independent copy of the board
func (b Board) Clone() Board {
	c := make(Board, len(b))
	copy(c, b)
	return c
}

// EmptyIndex returns the flat index of the empty cell, or -1 when the board
// has none.
func (b Board) EmptyIndex() int {
	for i, t := range b {
		if t == Empty {
			return i
		}
	}
	return -1
}

// IsSolved reports whether every label sits on its target cell. Only the
// label prefix is compared: when all size*size-1 labels are in place the
// empty cell can only be last.
func (b Board) IsSolved() bool {
	for i := 0; i < len(b)-1; i++ {
		if b[i] != Tile(i+1) {
			return false
		}
	}
	return true
}

// Inversions counts label pairs that appear out of canonical order. The empty
// cell is skipped on both sides of each comparison.
func (b Board) Inversions() int {
	count := 0
	for i := 0; i < len(b); i++ {
		if b[i] == Empty {
			continue
		}
		for j := i + 1; j < len(b); j++ {
			if b[j] != Empty && b[j] < b[i] {
				count++
			}
		}
	}
	return count
}

// ValidateBoard checks the structural invariants of a board: length size*size,
// exactly one empty cell, and the labels 1..size*size-1 each exactly once.
func ValidateBoard(b Board, size int) error {
	n := size * size
	if len(b) != n {
		return fmt.Errorf("board validation: length must be %d for grid size %d, got %d", n, size, len(b))
	}
	seen := make(map[Tile]bool, n)
	empties := 0
	for i, t := range b {
		if t == Empty {
			empties++
			continue
		}
		if t < 1 || int(t) > n-1 {
			return fmt.Errorf("board validation: tile %d at index %d is out of range 1..%d", t, i, n-1)
		}
		if seen[t] {
			return fmt.Errorf("board validation: tile %d appears more than once", t)
		}
		seen[t] = true
	}
	if empties != 1 {
		return fmt.Errorf("board validation: expected exactly one empty cell, found %d", empties)
	}
	return nil
}

// PositionOf converts a flat index to its row/column on a size-wide grid
func PositionOf(index, size int) Position {
	return Position{Row: index / size, Col: index % size}
}

// IndexOf converts a row/column position to its flat index on a size-wide grid
func IndexOf(p Position, size int) int {
	return p.Row*size + p.Col
}

// TargetIndex returns the cell a tile occupies in the solved layout. This is
// the only hint the game offers: where a tile belongs, never how to get it
// there.
func TargetIndex(t Tile) int {
	return int(t) - 1
}
