// Package movers simulates moving obstacles that bounce around a grid.
//
// Each Obstacle has a continuous position, a heading (DX, DY) with components
// in {-1, 0, 1}, and a Speed. Step accumulates Speed into an internal counter
// and moves the obstacle one whole cell once the counter reaches 1, which
// throttles movement independently of how often Step is called. On reaching
// a boundary the offending heading component is inverted and the position is
// clamped into [0, cols-1] × [0, rows-1].
//
// Occupies(x, y) floors every obstacle position and reports a match. The same
// check is exposed as Blocked so a *Simulator can be composed into a
// grid.Blocker for the search engine. Obstacles are advisory only: the
// simulator never touches grid cells.
//
// A Simulator is safe for concurrent use.
package movers
