package main

import "testing"

func TestNeighborOfEmpty(t *testing.T) {
	tests := []struct {
		name     string
		empty    int
		grid     int
		expected int
	}{
		{"center picks left", 4, 3, 3},
		{"left edge picks right", 3, 3, 4},
		{"top left corner picks right", 0, 3, 1},
		{"top right corner picks left", 2, 3, 1},
		{"bottom right corner picks left", 8, 3, 7},
		{"4x4 interior picks left", 5, 4, 4},
	}

	for _, test := range tests {
		state := &GameState{EmptyIndex: test.empty, GridSize: test.grid}
		if got := neighborOfEmpty(state); got != test.expected {
			t.Errorf("%s: neighborOfEmpty = %d, expected %d", test.name, got, test.expected)
		}
	}
}
