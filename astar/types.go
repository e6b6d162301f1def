// Package astar defines statuses, results, hooks and functional options
// for the incremental A* search engine.
package astar

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/pathviz/grid"
)

// Sentinel errors returned by New and FindPath.
var (
	// ErrNilGrid indicates a nil *grid.Grid.
	ErrNilGrid = errors.New("astar: grid is nil")

	// ErrMissingEndpoints indicates the start or the end is unset.
	ErrMissingEndpoints = errors.New("astar: start and end must both be set")

	// ErrSameEndpoints indicates start and end are the same cell.
	ErrSameEndpoints = errors.New("astar: start and end must differ")

	// ErrOutOfBounds indicates an endpoint index outside the grid.
	ErrOutOfBounds = errors.New("astar: endpoint out of bounds")

	// ErrBlockedEndpoint indicates an endpoint on a static obstacle.
	ErrBlockedEndpoint = errors.New("astar: endpoint is an obstacle")

	// ErrOptionViolation indicates an invalid Option.
	ErrOptionViolation = errors.New("astar: invalid option supplied")
)

// Status is the state of a single search.
type Status int

const (
	// Running means the open set may still hold cells to expand.
	Running Status = iota
	// Found means the end cell was expanded and the path rebuilt.
	Found
	// NoPath means the open set was exhausted without reaching the end.
	NoPath
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Found:
		return "found"
	case NoPath:
		return "no-path"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Done reports whether the search has finished.
func (s Status) Done() bool {
	return s != Running
}

// Heuristic estimates the remaining cost from a to b.
type Heuristic func(a, b grid.Point) float64

// Hook observes one algorithm event: the cell and the 1-based expansion number.
type Hook func(p grid.Point, step int)

// Options holds search parameters and callbacks.
type Options struct {
	// Heuristic must be admissible for Found paths to be shortest. Default: Manhattan.
	Heuristic Heuristic

	// Blocker filters neighbors on top of static obstacles. Default: nil (none).
	Blocker grid.Blocker

	// OnExplore fires when a cell moves from the open to the closed set.
	OnExplore Hook

	// OnFrontier fires when a cell is admitted to the open set.
	OnFrontier Hook

	// OnPath fires once per path cell, start to end, after the end is reached.
	OnPath Hook

	err error
}

// Option configures a search via functional arguments.
type Option func(*Options)

// DefaultOptions returns Options with the Manhattan heuristic, no extra
// blocker and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Heuristic:  Manhattan,
		OnExplore:  func(grid.Point, int) {},
		OnFrontier: func(grid.Point, int) {},
		OnPath:     func(grid.Point, int) {},
	}
}

// WithHeuristic replaces the heuristic. A nil heuristic is an option violation.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h == nil {
			o.err = fmt.Errorf("%w: nil heuristic", ErrOptionViolation)
			return
		}
		o.Heuristic = h
	}
}

// WithBlocker installs a transient neighbor filter, e.g. a *movers.Simulator.
func WithBlocker(b grid.Blocker) Option {
	return func(o *Options) {
		o.Blocker = b
	}
}

// WithOnExplore registers the explored-cell hook.
func WithOnExplore(fn Hook) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExplore = fn
		}
	}
}

// WithOnFrontier registers the frontier-admission hook.
func WithOnFrontier(fn Hook) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnFrontier = fn
		}
	}
}

// WithOnPath registers the path-reconstruction hook.
func WithOnPath(fn Hook) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnPath = fn
		}
	}
}

// Result is the outcome of a search.
//   - Path: row-major indices start..end inclusive; nil unless Status == Found.
//   - Explored: indices in expansion order.
//   - Cost: G of the end cell when Found (edge count).
//   - Steps: number of expansions performed.
type Result struct {
	Status   Status
	Path     []int
	Explored []int
	Cost     float64
	Steps    int
}

// Found reports whether a path was found.
func (r Result) Found() bool {
	return r.Status == Found
}
