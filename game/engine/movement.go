package engine

// Adjacent reports whether two cells of a size-wide grid share an edge:
// same column with row distance one, or same row with column distance one.
// Diagonal neighbors and cells further apart are not adjacent.
func Adjacent(a, b, size int) bool {
	if a == b {
		return false
	}
	ar, ac := a/size, a%size
	br, bc := b/size, b%size
	if ac == bc && (ar-br == 1 || br-ar == 1) {
		return true
	}
	if ar == br && (ac-bc == 1 || bc-ac == 1) {
		return true
	}
	return false
}

// TryMove attempts to slide the tile at targetIndex into the empty cell. On a
// legal move it returns a new board with the two cells swapped and true. It
// rejects out-of-range targets, the empty cell itself, and tiles not adjacent
// to the empty cell, returning the input board unchanged and false. The input
// board is never mutated.
func TryMove(b Board, size, targetIndex int) (Board, bool) {
	if targetIndex < 0 || targetIndex >= len(b) {
		return b, false
	}
	if b[targetIndex] == Empty {
		return b, false
	}
	empty := b.EmptyIndex()
	if empty < 0 || !Adjacent(targetIndex, empty, size) {
		return b, false
	}
	next := b.Clone()
	next[empty], next[targetIndex] = next[targetIndex], next[empty]
	return next, true
}
