package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/katalvlaran/pathviz/astar"
	"github.com/katalvlaran/pathviz/config"
	"github.com/katalvlaran/pathviz/grid"
	"github.com/katalvlaran/pathviz/movers"
)

// Session is the single owner of a board and its search.
type Session struct {
	mu sync.Mutex

	cfg  config.Config
	opts options
	g    *grid.Grid
	sim  *movers.Simulator

	phase   Phase
	animate bool
	dynamic bool
	search  *astar.Search
	last    astar.Result
	started time.Time

	listeners  []listener
	nextID     int
	outbox     []Event // emitted under mu, not yet delivered
	delivering bool    // some call is draining outbox
}

type listener struct {
	id int
	fn func(Event)
}

// New builds a session from cfg. A zero cfg.Seed seeds from the clock.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rand = rand.New(rand.NewSource(seed))
	}

	g, err := grid.New(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return nil, err
	}
	sim, err := movers.New(cfg.Grid.Width, cfg.Grid.Height,
		movers.WithBatch(cfg.Movers.MinBatch, cfg.Movers.MaxBatch),
		movers.WithSpeed(cfg.Movers.MinSpeed, cfg.Movers.MaxSpeed),
		movers.WithRand(o.rand),
	)
	if err != nil {
		return nil, err
	}

	return &Session{
		cfg:       cfg,
		opts:      o,
		g:         g,
		sim:       sim,
		animate:   cfg.Search.Animate,
		dynamic:   cfg.Search.Dynamic,
	}, nil
}

// Subscribe registers fn for every event and returns a function that removes it.
//
// Listeners run after the session lock is released, one event at a time and
// in emission order, on the goroutine of the call that produced the event or
// of a call already delivering. A listener may read session state and may
// call actions; events those actions emit are delivered after the current
// batch. A listener must not block.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// emit queues ev for delivery by unlock. Caller holds s.mu.
func (s *Session) emit(ev Event) {
	s.outbox = append(s.outbox, ev)
}

// unlock releases s.mu and delivers queued events outside it. Only one call
// delivers at a time; events queued meanwhile join its loop.
func (s *Session) unlock() {
	if s.delivering || len(s.outbox) == 0 {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.outbox) > 0 {
		evs := s.outbox
		s.outbox = nil
		fns := make([]func(Event), len(s.listeners))
		for i, l := range s.listeners {
			fns[i] = l.fn
		}
		s.mu.Unlock()
		for _, ev := range evs {
			for _, fn := range fns {
				fn(ev)
			}
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

func (s *Session) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	s.phase = p
	s.emit(Event{Kind: EventPhase, Phase: p.String()})
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Animate reports whether searches are stepped by Tick.
func (s *Session) Animate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animate
}

// Dynamic reports whether movers advance and block.
func (s *Session) Dynamic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dynamic
}

// LastResult returns the result of the most recent finished search.
func (s *Session) LastResult() astar.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

//----------------------------------------------------------------------------//
// Editing actions
//----------------------------------------------------------------------------//

// PlaceStart moves the start to (x,y) and clears the path state.
func (s *Session) PlaceStart(x, y int) error {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return ErrRunning
	}
	if err := s.g.SetStart(x, y); err != nil {
		return err
	}
	s.clearPath()
	s.emit(Event{Kind: EventGrid, X: x, Y: y})
	return nil
}

// PlaceEnd moves the end to (x,y) and clears the path state.
// The start must already be placed.
func (s *Session) PlaceEnd(x, y int) error {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return ErrRunning
	}
	if s.g.Start() == grid.NoParent {
		return ErrStartUnset
	}
	if err := s.g.SetEnd(x, y); err != nil {
		return err
	}
	s.clearPath()
	s.emit(Event{Kind: EventGrid, X: x, Y: y})
	return nil
}

// ToggleObstacle flips the obstacle at (x,y) and returns its new state.
func (s *Session) ToggleObstacle(x, y int) (bool, error) {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return false, ErrRunning
	}
	on, err := s.g.ToggleObstacle(x, y)
	if err != nil {
		return false, err
	}
	s.emit(Event{Kind: EventGrid, X: x, Y: y})
	return on, nil
}

// PaintObstacle sets the obstacle at (x,y) to on, for drag painting.
func (s *Session) PaintObstacle(x, y int, on bool) error {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return ErrRunning
	}
	if err := s.g.SetObstacle(x, y, on); err != nil {
		return err
	}
	s.emit(Event{Kind: EventGrid, X: x, Y: y})
	return nil
}

// RandomizeObstacles re-rolls every non-endpoint cell with the configured
// obstacle probability and returns the obstacle count.
func (s *Session) RandomizeObstacles() (int, error) {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return 0, ErrRunning
	}
	s.clearPath()
	n := s.g.Randomize(s.opts.rand, s.cfg.Grid.ObstacleProbability)
	s.emit(Event{Kind: EventGrid, X: -1, Y: -1})
	return n, nil
}

// SpawnMovers adds a batch of moving obstacles. Allowed in every phase.
func (s *Session) SpawnMovers() []movers.Obstacle {
	s.mu.Lock()
	defer s.unlock()
	batch := s.sim.Spawn()
	s.emit(Event{Kind: EventMovers, X: -1, Y: -1})
	return batch
}

// ToggleAnimation flips animated mode and returns the new value.
func (s *Session) ToggleAnimation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animate = !s.animate
	return s.animate
}

// ToggleDynamic flips dynamic-obstacle mode and returns the new value.
func (s *Session) ToggleDynamic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dynamic = !s.dynamic
	return s.dynamic
}

//----------------------------------------------------------------------------//
// Resets
//----------------------------------------------------------------------------//

// ResetPath clears search state but keeps obstacles, endpoints and movers.
// A running search is cancelled.
func (s *Session) ResetPath() {
	s.mu.Lock()
	defer s.unlock()
	s.cancelRunning()
	s.clearPath()
	s.emit(Event{Kind: EventGrid, X: -1, Y: -1})
}

// ResetAll clears everything: search state, obstacles, endpoints and movers.
// A running search is cancelled.
func (s *Session) ResetAll() {
	s.mu.Lock()
	defer s.unlock()
	s.cancelRunning()
	s.g.Reset(grid.ResetFull)
	s.sim.Clear()
	s.search = nil
	s.last = astar.Result{}
	s.setPhase(Idle)
	s.emit(Event{Kind: EventGrid, X: -1, Y: -1})
	s.emit(Event{Kind: EventMovers, X: -1, Y: -1})
}

// clearPath drops search state and returns to Idle. Caller holds s.mu.
func (s *Session) clearPath() {
	s.g.Reset(grid.ResetPath)
	s.search = nil
	s.last = astar.Result{}
	s.setPhase(Idle)
}

// cancelRunning drops an in-progress search. Caller holds s.mu.
func (s *Session) cancelRunning() {
	if s.phase != Running || s.search == nil {
		return
	}
	s.record(s.search.Result(), "cancelled")
	s.search = nil
	s.emit(Event{Kind: EventCancelled, X: -1, Y: -1})
}

//----------------------------------------------------------------------------//
// Search and clock
//----------------------------------------------------------------------------//

// StartSearch begins a search from the placed start to the placed end.
// In instant mode it runs to completion before returning.
// Returns ErrRunning, or the astar precondition errors
// (astar.ErrMissingEndpoints, ...) without starting anything.
func (s *Session) StartSearch() error {
	s.mu.Lock()
	defer s.unlock()
	if s.phase == Running {
		return ErrRunning
	}

	opts := []astar.Option{
		astar.WithOnExplore(s.hook(EventExplored)),
		astar.WithOnFrontier(s.hook(EventFrontier)),
		astar.WithOnPath(s.hook(EventPath)),
	}
	if s.dynamic {
		opts = append(opts, astar.WithBlocker(s.sim))
	}
	search, err := astar.New(s.g, s.g.Start(), s.g.End(), opts...)
	if err != nil {
		return fmt.Errorf("start search: %w", err)
	}

	s.search = search
	s.last = astar.Result{}
	s.started = s.opts.now()
	s.setPhase(Running)
	if !s.animate {
		s.drain()
	}
	return nil
}

// hook forwards an astar callback as a session event. Hooks only fire from
// Step, which always runs under s.mu.
func (s *Session) hook(kind EventKind) astar.Hook {
	return func(p grid.Point, step int) {
		s.emit(Event{Kind: kind, X: p.X, Y: p.Y, Step: step})
	}
}

// drain runs the active search to completion. Caller holds s.mu.
func (s *Session) drain() {
	for s.search.Step() == astar.Running {
	}
	s.finish()
}

// Tick is one scheduler beat: advance movers if dynamic, then one expansion
// if a search is running (all remaining expansions if animation was turned
// off mid-search).
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.unlock()

	if s.dynamic && s.sim.Len() > 0 {
		s.sim.Step()
		s.emit(Event{Kind: EventMovers, X: -1, Y: -1})
	}
	if s.phase != Running || s.search == nil {
		return
	}
	if !s.animate {
		s.drain()
		return
	}
	if s.search.Step().Done() {
		s.finish()
	}
}

// finish moves a completed search out of Running. Caller holds s.mu.
func (s *Session) finish() {
	res := s.search.Result()
	s.last = res
	s.search = nil
	if res.Found() {
		s.setPhase(Succeeded)
		if s.cfg.Search.DetectStale && s.dynamic {
			if stale := astar.StaleCells(s.g, res.Path, s.sim); len(stale) > 0 {
				s.emit(Event{Kind: EventStale, X: -1, Y: -1, Cells: s.g.Points(stale)})
			}
		}
	} else {
		s.setPhase(Failed)
	}
	s.record(res, res.Status.String())
}

// record hands a summary to the recorder. Caller holds s.mu.
func (s *Session) record(res astar.Result, status string) {
	if s.opts.recorder == nil {
		return
	}
	sx, sy := s.g.Coordinate(s.g.Start())
	ex, ey := s.g.Coordinate(s.g.End())
	sum := RunSummary{
		Width:     s.g.Width,
		Height:    s.g.Height,
		Start:     grid.Point{X: sx, Y: sy},
		End:       grid.Point{X: ex, Y: ey},
		Status:    status,
		Explored:  len(res.Explored),
		Obstacles: s.g.ObstacleCount(),
		Movers:    s.sim.Len(),
		Animated:  s.animate,
		Dynamic:   s.dynamic,
		StartedAt: s.started,
		Duration:  s.opts.now().Sub(s.started),
	}
	if res.Found() {
		sum.PathLen = len(res.Path) - 1
	}
	s.opts.recorder.Record(sum)
}

// Run calls Tick every cfg.Tick until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
