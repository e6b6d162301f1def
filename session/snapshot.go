package session

import (
	"github.com/katalvlaran/pathviz/grid"
)

// Cell flag bits used in Snapshot.Cells.
const (
	FlagObstacle uint8 = 1 << iota
	FlagStart
	FlagEnd
	FlagPath
	FlagExplored
	FlagFrontier
)

// MoverPos is the floored cell of one moving obstacle.
type MoverPos struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Snapshot is a self-contained copy of the board for renderers and clients.
// Cells is row-major with one flag byte per cell.
type Snapshot struct {
	W       int        `json:"w" msgpack:"w"`
	H       int        `json:"h" msgpack:"h"`
	Cells   []uint8    `json:"cells" msgpack:"cells"`
	Movers  []MoverPos `json:"movers" msgpack:"movers"`
	Phase   string     `json:"phase" msgpack:"phase"`
	Animate bool       `json:"animate" msgpack:"animate"`
	Dynamic bool       `json:"dynamic" msgpack:"dynamic"`
}

// Has reports whether the cell at (x, y) carries flag.
func (s Snapshot) Has(x, y int, flag uint8) bool {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return false
	}
	return s.Cells[y*s.W+x]&flag != 0
}

// Snapshot copies the current board state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		W:       s.g.Width,
		H:       s.g.Height,
		Cells:   make([]uint8, s.g.Len()),
		Phase:   s.phase.String(),
		Animate: s.animate,
		Dynamic: s.dynamic,
	}
	for i := range snap.Cells {
		snap.Cells[i] = cellFlags(s.g.Cell(i))
	}
	obs := s.sim.Snapshot()
	snap.Movers = make([]MoverPos, len(obs))
	for i, o := range obs {
		x, y := o.Cell()
		snap.Movers[i] = MoverPos{X: x, Y: y}
	}
	return snap
}

func cellFlags(c *grid.Cell) uint8 {
	var f uint8
	if c.Obstacle {
		f |= FlagObstacle
	}
	if c.Start {
		f |= FlagStart
	}
	if c.End {
		f |= FlagEnd
	}
	if c.Path {
		f |= FlagPath
	}
	if c.Explored {
		f |= FlagExplored
	}
	if c.Frontier {
		f |= FlagFrontier
	}
	return f
}
