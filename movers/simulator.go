package movers

import (
	"fmt"
	"math"
	"sync"
)

// Simulator owns a set of moving obstacles confined to a cols×rows board.
type Simulator struct {
	mu        sync.RWMutex
	cols      int
	rows      int
	opts      Options
	obstacles []Obstacle
}

// New creates an empty simulator for a cols×rows board.
// Returns ErrBadBounds for non-positive dimensions, or ErrOptionViolation.
func New(cols, rows int, opts ...Option) (*Simulator, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadBounds, cols, rows)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Simulator{cols: cols, rows: rows, opts: o}, nil
}

// Spawn adds a batch of MinBatch..MaxBatch obstacles at uniformly random
// positions with random diagonal headings and returns the new obstacles.
func (s *Simulator) Spawn() []Obstacle {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.opts.Rand
	n := s.opts.MinBatch + r.Intn(s.opts.MaxBatch-s.opts.MinBatch+1)
	batch := make([]Obstacle, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, Obstacle{
			X:     r.Float64() * float64(s.cols-1),
			Y:     r.Float64() * float64(s.rows-1),
			DX:    diagonal(r.Intn(2)),
			DY:    diagonal(r.Intn(2)),
			Speed: s.opts.MinSpeed + r.Float64()*(s.opts.MaxSpeed-s.opts.MinSpeed),
		})
	}
	s.obstacles = append(s.obstacles, batch...)

	return batch
}

// diagonal maps a coin flip to a heading component.
func diagonal(coin int) int {
	if coin == 0 {
		return -1
	}
	return 1
}

// Add places a single obstacle. The counter always starts at zero.
func (s *Simulator) Add(o Obstacle) error {
	if !finite(o.X) || !finite(o.Y) || !finite(o.Speed) {
		return fmt.Errorf("%w: non-finite obstacle (%g,%g) speed %g", ErrOutOfBounds, o.X, o.Y, o.Speed)
	}
	if o.X < 0 || o.X > float64(s.cols-1) || o.Y < 0 || o.Y > float64(s.rows-1) {
		return fmt.Errorf("%w: (%g,%g)", ErrOutOfBounds, o.X, o.Y)
	}
	if !validHeading(o.DX) || !validHeading(o.DY) {
		return fmt.Errorf("%w: (%d,%d)", ErrBadHeading, o.DX, o.DY)
	}
	o.counter = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacles = append(s.obstacles, o)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validHeading(d int) bool {
	return d >= -1 && d <= 1
}

// Step advances every obstacle by its speed. An obstacle moves one cell
// along its heading each time its counter reaches 1, then bounces off the
// board edges.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxX, maxY := float64(s.cols-1), float64(s.rows-1)
	for i := range s.obstacles {
		o := &s.obstacles[i]
		o.counter += o.Speed
		if o.counter < 1 {
			continue
		}
		o.counter = 0
		o.X, o.DX = bounce(o.X+float64(o.DX), o.DX, maxX)
		o.Y, o.DY = bounce(o.Y+float64(o.DY), o.DY, maxY)
	}
}

// bounce clamps pos into [0, max] and turns dir away from any edge reached.
func bounce(pos float64, dir int, max float64) (float64, int) {
	if pos <= 0 {
		pos = 0
		if dir < 0 {
			dir = -dir
		}
	}
	if pos >= max {
		pos = max
		if dir > 0 {
			dir = -dir
		}
	}
	return pos, dir
}

// Occupies reports whether any obstacle's floored position equals (x, y).
func (s *Simulator) Occupies(x, y int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.obstacles {
		ox, oy := s.obstacles[i].Cell()
		if ox == x && oy == y {
			return true
		}
	}
	return false
}

// Blocked implements grid.Blocker.
func (s *Simulator) Blocked(x, y int) bool {
	return s.Occupies(x, y)
}

// Snapshot returns a copy of the current obstacles.
func (s *Simulator) Snapshot() []Obstacle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Len returns the number of obstacles.
func (s *Simulator) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.obstacles)
}

// Clear removes every obstacle.
func (s *Simulator) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacles = nil
}

func floor(v float64) int {
	return int(math.Floor(v))
}
