package grid

import (
	"fmt"
	"math/rand"
)

// SetStart moves the start role to (x,y), clearing any prior start.
// Returns ErrOutOfBounds, ErrObstacleCell, or ErrSameEndpoints when (x,y) is the end.
func (g *Grid) SetStart(x, y int) error {
	idx, err := g.endpointIndex(x, y)
	if err != nil {
		return err
	}
	if idx == g.end {
		return fmt.Errorf("%w: (%d,%d) is the end", ErrSameEndpoints, x, y)
	}
	if g.start != NoParent {
		g.cells[g.start].Start = false
	}
	g.start = idx
	g.cells[idx].Start = true

	return nil
}

// SetEnd moves the end role to (x,y), clearing any prior end.
// Returns ErrOutOfBounds, ErrObstacleCell, or ErrSameEndpoints when (x,y) is the start.
func (g *Grid) SetEnd(x, y int) error {
	idx, err := g.endpointIndex(x, y)
	if err != nil {
		return err
	}
	if idx == g.start {
		return fmt.Errorf("%w: (%d,%d) is the start", ErrSameEndpoints, x, y)
	}
	if g.end != NoParent {
		g.cells[g.end].End = false
	}
	g.end = idx
	g.cells[idx].End = true

	return nil
}

// endpointIndex validates (x,y) as an endpoint location.
func (g *Grid) endpointIndex(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return NoParent, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	idx := g.Index(x, y)
	if g.cells[idx].Obstacle {
		return NoParent, fmt.Errorf("%w: (%d,%d)", ErrObstacleCell, x, y)
	}
	return idx, nil
}

// SetObstacle sets the obstacle flag of (x,y).
// Returns ErrOutOfBounds, or ErrEndpointCell for the start or end cell.
func (g *Grid) SetObstacle(x, y int, on bool) error {
	idx, err := g.editableIndex(x, y)
	if err != nil {
		return err
	}
	g.cells[idx].Obstacle = on
	return nil
}

// ToggleObstacle flips the obstacle flag of (x,y) and returns the new value.
func (g *Grid) ToggleObstacle(x, y int) (bool, error) {
	idx, err := g.editableIndex(x, y)
	if err != nil {
		return false, err
	}
	g.cells[idx].Obstacle = !g.cells[idx].Obstacle
	return g.cells[idx].Obstacle, nil
}

func (g *Grid) editableIndex(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return NoParent, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	idx := g.Index(x, y)
	if idx == g.start || idx == g.end {
		return NoParent, fmt.Errorf("%w: (%d,%d)", ErrEndpointCell, x, y)
	}
	return idx, nil
}

// Reset clears search state (ResetPath) or everything (ResetFull).
// Calling it repeatedly with the same mode is a no-op after the first call.
// Complexity: O(W×H).
func (g *Grid) Reset(mode ResetMode) {
	for i := range g.cells {
		c := &g.cells[i]
		c.clearSearch()
		if mode == ResetFull {
			c.Obstacle, c.Start, c.End = false, false, false
		}
	}
	if mode == ResetFull {
		g.start, g.end = NoParent, NoParent
	}
}

// Randomize makes every non-endpoint cell an obstacle independently with
// probability p and clears it otherwise. Cells are visited in row-major
// order, so a seeded rng yields a reproducible layout.
// Returns the resulting number of obstacles.
func (g *Grid) Randomize(rng *rand.Rand, p float64) int {
	n := 0
	for i := range g.cells {
		if i == g.start || i == g.end {
			continue
		}
		on := rng.Float64() < p
		g.cells[i].Obstacle = on
		if on {
			n++
		}
	}
	return n
}
