package astar

import "github.com/katalvlaran/pathviz/grid"

// Manhattan returns |dx| + |dy|, admissible and consistent on a 4-connected
// unit-cost grid.
func Manhattan(a, b grid.Point) float64 {
	return float64(abs(a.X-b.X) + abs(a.Y-b.Y))
}

// Zero turns A* into uniform-cost search.
func Zero(_, _ grid.Point) float64 {
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
