// Package pathviz is an interactive A* pathfinding visualizer: a grid you
// edit, a search you can watch expand cell by cell, and obstacles that move
// while it runs.
//
// 🚀 What is in the box?
//
//	• Grid model: W×H cells, static obstacles, one start and one end
//	• Moving obstacles: diagonal movers with fractional speed that bounce off the edges
//	• A* search: resumable, one expansion per Step, hooks on explore/frontier/path
//	• Session: phases, mode gating, animation clock and an event stream
//	• Front-ends: a tcell terminal UI and a websocket server with a browser viewer
//	• Run log: every finished search summarized in SQLite
//
// Under the hood the packages are layered bottom-up:
//
//	grid/    Cell, Grid, editing, the Blocker capability
//	movers/  moving-obstacle simulator (a grid.Blocker)
//	astar/   resumable A* over a grid.Grid, stale-path detection
//	config/  YAML configuration with defaults and validation
//	session/ owned state, action table, Tick/Run scheduler, snapshots
//	runlog/  SQLite store and async session.Recorder
//	server/  websocket hub, JSON actions, msgpack snapshots
//	tui/     tcell renderer and key/mouse mapping
//	cmd/pathviz the binary wiring it all together
//
// Quick ASCII example (S start, E end, # wall, * path, x explored, o frontier):
//
//	S*#..
//	x*#o.
//	x***E
//
//	go run ./cmd/pathviz -ui tui
package pathviz
