// Package session owns one visualizer board and serializes everything that
// touches it: user actions, the animation clock, and event delivery.
//
// A Session holds a grid.Grid, a movers.Simulator and at most one active
// astar.Search. Its Phase gates edits:
//
//	Idle ──StartSearch──▶ Running ──▶ Succeeded | Failed ──reset──▶ Idle
//
// Only Running forbids edits (ErrRunning). Starting a search while one is
// running is rejected, never queued.
//
// Scheduling:
//
//   - Tick advances the movers when dynamic mode is on (whatever the phase),
//     then performs one search expansion when a search is running in animated
//     mode. Run drives Tick from a time.Ticker.
//   - In instant mode StartSearch runs the search to completion synchronously.
//   - ResetPath/ResetAll during Running drop the search; the loop simply never
//     steps again, so cancellation is observed at the next tick boundary.
//
// Moving obstacles filter neighbors only while dynamic mode is on. Cells
// admitted earlier are not re-validated and a found path may go stale; with
// Config.Search.DetectStale the session reports such cells as EventStale.
//
// Events are queued while the session lock is held and delivered to
// Subscribe listeners after it is released, in emission order. Listeners may
// read state and call actions but must not block.
package session
