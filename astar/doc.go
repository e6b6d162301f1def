// Package astar implements an incremental A* search over a grid.Grid with
// 4-connectivity and unit edge cost, designed to be driven one expansion at a
// time by an external clock.
//
// Overview:
//
//   - New validates the endpoints, clears previous search state on the grid,
//     and seeds the open set with the start cell.
//   - Step performs exactly one expansion and reports the Status
//     (Running, Found, NoPath). Run steps to completion (instant mode).
//   - FindPath is the one-shot contract: Result.Status is Found with a
//     non-empty Path, or NoPath. Exhaustion is a result, never an error.
//
// Ordering and tie-break:
//
//   - The open set is a slice kept in insertion order. Each expansion takes
//     the first cell with strictly minimal F found by a linear scan, so among
//     equal-F cells the earliest admitted wins. Combined with the grid's fixed
//     neighbor order (left, right, up, down) this makes the explored order
//     fully deterministic for a given layout.
//   - Improving the cost of a cell already in the open set keeps its position.
//
// Moving obstacles:
//
//   - WithBlocker installs a transient filter (typically a *movers.Simulator)
//     consulted when neighbors are enumerated. Cells admitted earlier are not
//     re-validated when the blocker changes, closed cells are never reopened,
//     and a Found path may cross a cell that became blocked afterwards.
//     Optimality is only guaranteed while the blocker is static.
//     StaleCells reports such cells on request.
//
// Hooks:
//
//   - OnExplore, OnFrontier and OnPath receive the cell coordinate and the
//     1-based expansion number, in algorithm order, for replay and animation.
//
// Complexity:
//
//   - Time:  O(V²) worst case (linear open-set scan per expansion), V = W×H.
//   - Space: O(V) for open/closed membership, explored order and path.
//
// Errors (sentinel):
//
//   - ErrNilGrid, ErrMissingEndpoints, ErrSameEndpoints, ErrOutOfBounds,
//     ErrBlockedEndpoint, ErrOptionViolation.
package astar
