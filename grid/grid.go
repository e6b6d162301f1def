// Package grid provides the rectangular cell model used by the path visualizer.
// Cells are stored row-major; every cross-cell reference is an index.
package grid

import (
	"fmt"
	"strings"
)

// neighborOffsets lists cardinal moves in the fixed order left, right, up, down.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Grid is a Width×Height board of cells plus the start/end references.
// It is not safe for concurrent mutation; the session package serializes access.
type Grid struct {
	Width, Height int
	cells         []Cell
	start, end    int
}

// New constructs an obstacle-free grid with no endpoints.
// Returns ErrEmptyGrid if width or height is below 1.
// Complexity: O(W×H) time and memory.
func New(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
		start:  NoParent,
		end:    NoParent,
	}
	for i := range g.cells {
		x, y := g.Coordinate(i)
		g.cells[i] = Cell{X: x, Y: y, Parent: NoParent}
	}

	return g, nil
}

// FromRows builds a grid from an ASCII map, one string per row:
//
//	'.' free   '#' obstacle   'S' start   'E' end
//
// Returns ErrEmptyGrid, ErrNonRectangular or ErrBadSymbol on malformed input,
// and the role errors of SetStart/SetEnd if the map repeats an endpoint.
func FromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w := len(rows[0])
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	g, err := New(w, len(rows))
	if err != nil {
		return nil, err
	}
	var startSeen, endSeen bool
	for y, row := range rows {
		for x, r := range row {
			switch r {
			case '.':
			case '#':
				g.cells[g.Index(x, y)].Obstacle = true
			case 'S':
				if startSeen {
					return nil, fmt.Errorf("%w: second start at (%d,%d)", ErrBadSymbol, x, y)
				}
				startSeen = true
				if err = g.SetStart(x, y); err != nil {
					return nil, err
				}
			case 'E':
				if endSeen {
					return nil, fmt.Errorf("%w: second end at (%d,%d)", ErrBadSymbol, x, y)
				}
				endSeen = true
				if err = g.SetEnd(x, y); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrBadSymbol, r, x, y)
			}
		}
	}

	return g, nil
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index maps (x,y) to a row-major index: y*Width + x.
// The caller must check InBounds first.
func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

// Coordinate converts a row-major index back to (x,y).
func (g *Grid) Coordinate(idx int) (x, y int) {
	return idx % g.Width, idx / g.Width
}

// Cell returns the cell at row-major index idx. The pointer stays valid for
// the lifetime of the grid; callers may update search fields through it.
func (g *Grid) Cell(idx int) *Cell {
	return &g.cells[idx]
}

// At returns the cell at (x,y), or nil when out of bounds.
func (g *Grid) At(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[g.Index(x, y)]
}

// Start returns the start index, or NoParent when unset.
func (g *Grid) Start() int { return g.start }

// End returns the end index, or NoParent when unset.
func (g *Grid) End() int { return g.end }

// Neighbors returns the cardinally adjacent, in-bounds, non-obstacle cells of
// idx in the order left, right, up, down.
// Complexity: O(1).
func (g *Grid) Neighbors(idx int) []int {
	x, y := g.Coordinate(idx)
	out := make([]int, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nx, ny := x+d[0], y+d[1]
		if !g.InBounds(nx, ny) {
			continue
		}
		n := g.Index(nx, ny)
		if g.cells[n].Obstacle {
			continue
		}
		out = append(out, n)
	}

	return out
}

// Blocked implements Blocker for static obstacles: out-of-bounds cells and
// cells flagged Obstacle are blocked.
func (g *Grid) Blocked(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[g.Index(x, y)].Obstacle
}

// Points converts row-major indices to coordinates, preserving order.
func (g *Grid) Points(idxs []int) []Point {
	out := make([]Point, len(idxs))
	for i, idx := range idxs {
		out[i] = g.cells[idx].Point()
	}
	return out
}

// ObstacleCount returns the number of static obstacle cells.
func (g *Grid) ObstacleCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Obstacle {
			n++
		}
	}
	return n
}

// String renders the grid as ASCII rows joined by '\n':
//
//	'#' obstacle  'S' start  'E' end  '*' path  'x' explored  'o' frontier  '.' free
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Width + 1) * g.Height)
	for y := 0; y < g.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.Width; x++ {
			sb.WriteByte(g.cells[g.Index(x, y)].symbol())
		}
	}
	return sb.String()
}

// symbol picks the highest-priority role for rendering.
func (c *Cell) symbol() byte {
	switch {
	case c.Obstacle:
		return '#'
	case c.Start:
		return 'S'
	case c.End:
		return 'E'
	case c.Path:
		return '*'
	case c.Explored:
		return 'x'
	case c.Frontier:
		return 'o'
	default:
		return '.'
	}
}
