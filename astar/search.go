// Package astar implements A* on a grid.Grid as a resumable state object.
//
// Notes on implementation choices:
//
//   - Open-set membership is an insertion-ordered slice plus a bool index;
//     selection is a linear scan so the tie-break stays "earliest admitted".
//   - All per-cell costs and the Parent index live on the grid cells, so a
//     renderer sees the search as it progresses.
package astar

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pathviz/grid"
)

// Search holds the mutable state of one A* run. It is not safe for
// concurrent use and must not outlive edits to its grid.
type Search struct {
	g      *grid.Grid
	opts   Options
	start  int
	end    int
	goal   grid.Point
	open   []int  // insertion order, no duplicates
	inOpen []bool // open-set membership by index
	closed []bool // closed-set membership by index

	status   Status
	steps    int
	explored []int
	path     []int
}

// New prepares a search from start to end (row-major indices) on g.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. start and end must both be set, i.e. not grid.NoParent (ErrMissingEndpoints).
//  3. start and end must differ (ErrSameEndpoints).
//  4. both must be inside the grid (ErrOutOfBounds).
//  5. neither may be a static obstacle (ErrBlockedEndpoint).
//
// On success the grid's search fields are cleared (grid.ResetPath) and the
// start cell is seeded with G=0, H=F=heuristic(start, end).
func New(g *grid.Grid, start, end int, opts ...Option) (*Search, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if start == grid.NoParent || end == grid.NoParent {
		return nil, ErrMissingEndpoints
	}
	if start == end {
		return nil, ErrSameEndpoints
	}
	for _, idx := range []int{start, end} {
		if idx < 0 || idx >= g.Len() {
			return nil, fmt.Errorf("%w: index %d", ErrOutOfBounds, idx)
		}
		if c := g.Cell(idx); c.Obstacle {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrBlockedEndpoint, c.X, c.Y)
		}
	}

	g.Reset(grid.ResetPath)
	n := g.Len()
	s := &Search{
		g:      g,
		opts:   o,
		start:  start,
		end:    end,
		goal:   g.Cell(end).Point(),
		open:   make([]int, 0, n),
		inOpen: make([]bool, n),
		closed: make([]bool, n),
		status: Running,
	}

	sc := g.Cell(start)
	sc.G = 0
	sc.H = o.Heuristic(sc.Point(), s.goal)
	sc.F = sc.H
	s.open = append(s.open, start)
	s.inOpen[start] = true

	return s, nil
}

// Status returns the current status.
func (s *Search) Status() Status {
	return s.status
}

// Steps returns the number of expansions performed so far.
func (s *Search) Steps() int {
	return s.steps
}

// Open returns a copy of the open set in insertion order.
func (s *Search) Open() []int {
	out := make([]int, len(s.open))
	copy(out, s.open)
	return out
}

// Closed reports whether idx has been expanded.
func (s *Search) Closed(idx int) bool {
	if idx < 0 || idx >= len(s.closed) {
		return false
	}
	return s.closed[idx]
}

// Step performs exactly one expansion and returns the resulting status.
// On a finished search it does nothing and returns the final status.
//
//  1. Select the first open cell with strictly minimal F.
//  2. Move it to the closed set, mark it Explored, fire OnExplore.
//  3. If it is the end, rebuild the path and report Found.
//  4. Otherwise relax its unblocked, unclosed neighbors with cost G+1.
//  5. Report NoPath once the open set is empty.
func (s *Search) Step() Status {
	if s.status != Running {
		return s.status
	}
	if len(s.open) == 0 {
		s.status = NoPath
		return s.status
	}
	s.steps++

	// 1) earliest minimal-F cell
	pos := s.selectMin()
	cur := s.open[pos]

	// 2) open -> closed, order of the remaining open cells preserved
	s.open = append(s.open[:pos], s.open[pos+1:]...)
	s.inOpen[cur] = false
	s.closed[cur] = true
	cc := s.g.Cell(cur)
	cc.Frontier = false
	cc.Explored = true
	s.explored = append(s.explored, cur)
	s.opts.OnExplore(cc.Point(), s.steps)

	// 3) goal test on expansion, not on admission
	if cur == s.end {
		s.reconstruct()
		s.status = Found
		return s.status
	}

	// 4) relax neighbors
	for _, n := range s.g.Neighbors(cur) {
		nc := s.g.Cell(n)
		if s.opts.Blocker != nil && s.opts.Blocker.Blocked(nc.X, nc.Y) {
			continue
		}
		if s.closed[n] {
			continue
		}
		tentative := cc.G + 1
		if !s.inOpen[n] {
			s.open = append(s.open, n)
			s.inOpen[n] = true
			nc.Frontier = true
			s.opts.OnFrontier(nc.Point(), s.steps)
		} else if tentative >= nc.G {
			continue
		}
		nc.Parent = cur
		nc.G = tentative
		nc.H = s.opts.Heuristic(nc.Point(), s.goal)
		nc.F = nc.G + nc.H
	}

	// 5) exhaustion
	if len(s.open) == 0 {
		s.status = NoPath
	}
	return s.status
}

// selectMin returns the position in s.open of the first cell whose F is
// strictly smaller than every cell before it.
func (s *Search) selectMin() int {
	best := 0
	bestF := s.g.Cell(s.open[0]).F
	for i := 1; i < len(s.open); i++ {
		if f := s.g.Cell(s.open[i]).F; f < bestF {
			best, bestF = i, f
		}
	}
	return best
}

// reconstruct walks Parent links from the end, reverses, marks Path cells
// and fires OnPath from start to end.
func (s *Search) reconstruct() {
	var path []int
	for at := s.end; at != grid.NoParent; at = s.g.Cell(at).Parent {
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for _, idx := range path {
		c := s.g.Cell(idx)
		c.Path = true
		s.opts.OnPath(c.Point(), s.steps)
	}
	s.path = path
}

// Run steps until the search finishes. ctx is checked before every
// expansion; on cancellation the partial Result is returned with ctx.Err().
func (s *Search) Run(ctx context.Context) (Result, error) {
	for s.status == Running {
		select {
		case <-ctx.Done():
			return s.Result(), ctx.Err()
		default:
		}
		s.Step()
	}
	return s.Result(), nil
}

// Result returns a snapshot of the outcome so far. Path is nil unless Found.
func (s *Search) Result() Result {
	r := Result{
		Status:   s.status,
		Explored: append([]int(nil), s.explored...),
		Steps:    s.steps,
	}
	if s.status == Found {
		r.Path = append([]int(nil), s.path...)
		r.Cost = s.g.Cell(s.end).G
	}
	return r
}

// FindPath runs a complete search from start to end on g.
// Precondition failures are returned as errors; an unreachable end is
// reported as Result.Status == NoPath with a nil error.
func FindPath(g *grid.Grid, start, end int, opts ...Option) (Result, error) {
	s, err := New(g, start, end, opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Run(context.Background())
}
