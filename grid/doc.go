// Package grid models the rectangular board the path visualizer works on.
//
// What:
//
//   - Grid owns a fixed, row-major slice of Cells created once by New or FromRows.
//   - Each Cell carries static attributes (Obstacle, Start, End) and the search
//     bookkeeping written by the A* engine (G, H, F, Parent, Path, Explored, Frontier).
//   - Parent is a row-major index (or NoParent), never a pointer, so path
//     reconstruction simply walks indices backwards.
//
// Neighbors:
//
//   - Neighbors(idx) returns the up-to-4 cardinal, in-bounds, non-obstacle cells
//     in the fixed order left, right, up, down. The order matters: the search
//     engine's tie-break depends on insertion order into the open set.
//
// Blockers:
//
//   - Blocker is the single "is (x,y) blocked right now" capability. *Grid
//     implements it for static obstacles; the movers package implements it for
//     transient ones; AnyOf composes them.
//
// Resets:
//
//   - Reset(ResetPath) clears cost and search flags, keeping obstacles and endpoints.
//   - Reset(ResetFull) additionally clears obstacles and both endpoints.
//
// Complexity:
//
//   - New, Reset, Randomize, String: O(W×H).
//   - Index, Coordinate, InBounds, Neighbors, Blocked: O(1).
//
// Errors:
//
//   - ErrEmptyGrid, ErrNonRectangular, ErrBadSymbol: construction failures.
//   - ErrOutOfBounds: coordinates outside the grid.
//   - ErrObstacleCell, ErrEndpointCell, ErrSameEndpoints: role invariants.
package grid
