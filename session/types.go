// Package session defines phases, events, run summaries and options.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/katalvlaran/pathviz/grid"
)

// Sentinel errors for session actions.
var (
	// ErrRunning is returned by edits and StartSearch while a search is running.
	ErrRunning = errors.New("session: a search is running")

	// ErrStartUnset is returned by PlaceEnd before a start is placed.
	ErrStartUnset = errors.New("session: place the start first")
)

// Phase is the search lifecycle state of a session.
type Phase int

const (
	// Idle: no search result on the board.
	Idle Phase = iota
	// Running: a search is in progress; edits are rejected.
	Running
	// Succeeded: the last search found a path.
	Succeeded
	// Failed: the last search exhausted the open set.
	Failed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventKind names an observable change.
type EventKind string

const (
	EventExplored  EventKind = "explored"  // a cell was expanded
	EventFrontier  EventKind = "frontier"  // a cell entered the open set
	EventPath      EventKind = "path"      // a path cell, emitted start to end
	EventPhase     EventKind = "phase"     // Phase changed
	EventGrid      EventKind = "grid"      // static layout or endpoints changed
	EventMovers    EventKind = "movers"    // moving obstacles spawned, moved or cleared
	EventStale     EventKind = "stale"     // a found path crosses a now-occupied cell
	EventCancelled EventKind = "cancelled" // a running search was dropped by a reset
)

// Event is one observable change, ordered by emission.
type Event struct {
	Kind  EventKind    `json:"k" msgpack:"k"`
	X     int          `json:"x" msgpack:"x"`
	Y     int          `json:"y" msgpack:"y"`
	Step  int          `json:"step,omitempty" msgpack:"step,omitempty"`
	Phase string       `json:"phase,omitempty" msgpack:"phase,omitempty"`
	Cells []grid.Point `json:"cells,omitempty" msgpack:"cells,omitempty"`
}

// RunSummary describes one finished or cancelled search.
type RunSummary struct {
	Width, Height int
	Start, End    grid.Point
	Status        string // astar status, or "cancelled"
	Explored      int
	PathLen       int // edges; 0 unless found
	Obstacles     int
	Movers        int
	Animated      bool
	Dynamic       bool
	StartedAt     time.Time
	Duration      time.Duration
}

// Recorder receives a summary for every search that leaves the Running phase.
// It is called under the session lock and must not block.
type Recorder interface {
	Record(RunSummary)
}

// Option configures a Session.
type Option func(*options)

type options struct {
	rand     *rand.Rand
	recorder Recorder
	now      func() time.Time
}

// WithRand overrides the random source used for obstacles and movers.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithRecorder installs a run recorder.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithClock overrides time.Now for run timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
