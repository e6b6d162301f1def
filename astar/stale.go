package astar

import "github.com/katalvlaran/pathviz/grid"

// StaleCells returns the cells of path that b blocks now, in path order.
// A Found path is computed against the blocker state at expansion time; with
// moving obstacles it can go stale afterwards. The search never calls this
// itself: detection is opt-in.
func StaleCells(g *grid.Grid, path []int, b grid.Blocker) []int {
	if b == nil {
		return nil
	}
	var stale []int
	for _, idx := range path {
		x, y := g.Coordinate(idx)
		if b.Blocked(x, y) {
			stale = append(stale, idx)
		}
	}
	return stale
}
