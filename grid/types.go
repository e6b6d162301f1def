// Package grid defines core types, reset modes, and sentinel errors
// for the grid subpackage of github.com/katalvlaran/pathviz.
package grid

import (
	"errors"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyGrid indicates the grid has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths in FromRows.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrBadSymbol indicates an unknown map symbol in FromRows.
	ErrBadSymbol = errors.New("grid: unknown map symbol")
	// ErrOutOfBounds indicates coordinates outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinates out of bounds")
	// ErrObstacleCell indicates an endpoint was requested on an obstacle cell.
	ErrObstacleCell = errors.New("grid: cell is an obstacle")
	// ErrEndpointCell indicates an obstacle edit on the start or end cell.
	ErrEndpointCell = errors.New("grid: cell is the start or end")
	// ErrSameEndpoints indicates start and end would coincide.
	ErrSameEndpoints = errors.New("grid: start and end must differ")
)

// NoParent marks a cell without a predecessor on the current best path,
// and an unset start or end.
const NoParent = -1

// DefaultObstacleProbability is the per-cell obstacle chance used by Randomize callers.
const DefaultObstacleProbability = 0.3

// ResetMode selects how much state Reset clears.
type ResetMode int

const (
	// ResetPath clears cost, parent, and search flags only.
	ResetPath ResetMode = iota
	// ResetFull additionally clears obstacles and the start/end references.
	ResetFull
)

// String implements fmt.Stringer.
func (m ResetMode) String() string {
	switch m {
	case ResetPath:
		return "path"
	case ResetFull:
		return "full"
	default:
		return "unknown"
	}
}

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Cell is a single grid square. X and Y never change after creation.
type Cell struct {
	X, Y int // Coordinates within the grid

	G      float64 // cost so far from the start
	H      float64 // heuristic estimate to the end
	F      float64 // G + H
	Parent int     // row-major index of the predecessor, or NoParent

	Obstacle bool
	Start    bool
	End      bool
	Path     bool
	Explored bool
	Frontier bool
}

// Point returns the cell coordinate.
func (c *Cell) Point() Point {
	return Point{X: c.X, Y: c.Y}
}

// clearSearch drops every field written by a search.
func (c *Cell) clearSearch() {
	c.G, c.H, c.F = 0, 0, 0
	c.Parent = NoParent
	c.Path, c.Explored, c.Frontier = false, false, false
}

// Blocker reports whether the cell at (x, y) cannot be entered right now.
type Blocker interface {
	Blocked(x, y int) bool
}

// BlockerFunc adapts a plain function to Blocker.
type BlockerFunc func(x, y int) bool

// Blocked implements Blocker.
func (f BlockerFunc) Blocked(x, y int) bool { return f(x, y) }

// AnyOf composes blockers: (x, y) is blocked if any non-nil member blocks it.
func AnyOf(bs ...Blocker) Blocker {
	members := make([]Blocker, 0, len(bs))
	for _, b := range bs {
		if b != nil {
			members = append(members, b)
		}
	}
	return BlockerFunc(func(x, y int) bool {
		for _, b := range members {
			if b.Blocked(x, y) {
				return true
			}
		}
		return false
	})
}
