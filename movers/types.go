// Package movers provides tunable options and error definitions
// for the moving-obstacle simulator.
package movers

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Sentinel errors for simulator construction and placement.
var (
	// ErrBadBounds is returned when cols or rows is below 1.
	ErrBadBounds = errors.New("movers: cols and rows must be positive")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("movers: invalid option supplied")

	// ErrOutOfBounds is returned by Add for a position outside the board.
	ErrOutOfBounds = errors.New("movers: position out of bounds")

	// ErrBadHeading is returned by Add for heading components outside {-1,0,1}.
	ErrBadHeading = errors.New("movers: heading components must be -1, 0 or 1")
)

// Obstacle is a single moving blocker.
type Obstacle struct {
	X, Y   float64 // continuous position
	DX, DY int     // heading, each in {-1, 0, 1}
	Speed  float64 // cells per Step, accumulated fractionally

	counter float64
}

// Cell returns the floored cell the obstacle currently covers.
func (o Obstacle) Cell() (x, y int) {
	return floor(o.X), floor(o.Y)
}

// Option configures a Simulator via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// Options holds spawn parameters.
type Options struct {
	// MinBatch and MaxBatch bound the number of obstacles per Spawn (inclusive).
	MinBatch, MaxBatch int

	// MinSpeed and MaxSpeed bound spawned speeds: [MinSpeed, MaxSpeed).
	MinSpeed, MaxSpeed float64

	// Rand drives spawn positions, headings and speeds.
	Rand *rand.Rand

	err error
}

// DefaultOptions returns Options with:
//   - batches of 3 to 5 obstacles
//   - speeds in [0.05, 0.2) cells per step
//   - a time-seeded random source
func DefaultOptions() Options {
	return Options{
		MinBatch: 3,
		MaxBatch: 5,
		MinSpeed: 0.05,
		MaxSpeed: 0.2,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithBatch sets the inclusive batch size range. Requires 1 <= lo <= hi.
func WithBatch(lo, hi int) Option {
	return func(o *Options) {
		if lo < 1 || hi < lo {
			o.err = fmt.Errorf("%w: batch range [%d,%d]", ErrOptionViolation, lo, hi)
			return
		}
		o.MinBatch, o.MaxBatch = lo, hi
	}
}

// WithSpeed sets the spawned speed range. Requires 0 < lo <= hi.
func WithSpeed(lo, hi float64) Option {
	return func(o *Options) {
		if lo <= 0 || hi < lo {
			o.err = fmt.Errorf("%w: speed range [%g,%g)", ErrOptionViolation, lo, hi)
			return
		}
		o.MinSpeed, o.MaxSpeed = lo, hi
	}
}

// WithRand sets the random source. Use a seeded source for reproducible spawns.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.Rand = r
		}
	}
}

// WithSeed is shorthand for WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}
