package grid_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathviz/grid"
)

//----------------------------------------------------------------------------//
// Construction
//----------------------------------------------------------------------------//

// TestNew_Errors verifies that New rejects empty dimensions.
func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"ZeroWidth", 0, 3},
		{"ZeroHeight", 3, 0},
		{"Negative", -1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.New(tc.w, tc.h)
			assert.ErrorIs(t, err, grid.ErrEmptyGrid)
		})
	}
}

func TestNew_CellsInitialized(t *testing.T) {
	g, err := grid.New(3, 2)
	require.NoError(t, err)
	require.Equal(t, 6, g.Len())
	assert.Equal(t, grid.NoParent, g.Start())
	assert.Equal(t, grid.NoParent, g.End())

	for i := 0; i < g.Len(); i++ {
		c := g.Cell(i)
		x, y := g.Coordinate(i)
		assert.Equal(t, x, c.X)
		assert.Equal(t, y, c.Y)
		assert.Equal(t, i, g.Index(x, y))
		assert.Equal(t, grid.NoParent, c.Parent)
		assert.False(t, c.Obstacle)
	}
}

func TestFromRows(t *testing.T) {
	g, err := grid.FromRows([]string{
		"S.#",
		"..E",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, g.Index(0, 0), g.Start())
	assert.Equal(t, g.Index(2, 1), g.End())
	assert.True(t, g.At(2, 0).Obstacle)
	assert.Equal(t, "S.#\n..E", g.String())
}

func TestFromRows_Errors(t *testing.T) {
	cases := []struct {
		name string
		rows []string
		err  error
	}{
		{"Empty", nil, grid.ErrEmptyGrid},
		{"EmptyRow", []string{""}, grid.ErrEmptyGrid},
		{"Ragged", []string{"..", "."}, grid.ErrNonRectangular},
		{"BadSymbol", []string{".?"}, grid.ErrBadSymbol},
		{"TwoStarts", []string{"S.S"}, grid.ErrBadSymbol},
		{"TwoEnds", []string{"E.E"}, grid.ErrBadSymbol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.FromRows(tc.rows)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

// TestInBounds checks InBounds and At on a 3×2 grid.
func TestInBounds(t *testing.T) {
	g, err := grid.New(3, 2)
	require.NoError(t, err)

	for _, xy := range [][2]int{{0, 0}, {2, 1}, {1, 1}} {
		assert.True(t, g.InBounds(xy[0], xy[1]), "InBounds(%d,%d)", xy[0], xy[1])
		assert.NotNil(t, g.At(xy[0], xy[1]))
	}
	for _, xy := range [][2]int{{-1, 0}, {3, 0}, {1, 2}, {2, -1}} {
		assert.False(t, g.InBounds(xy[0], xy[1]), "InBounds(%d,%d)", xy[0], xy[1])
		assert.Nil(t, g.At(xy[0], xy[1]))
		assert.True(t, g.Blocked(xy[0], xy[1]), "out of bounds must be blocked")
	}
}

//----------------------------------------------------------------------------//
// Neighbors
//----------------------------------------------------------------------------//

// TestNeighbors_Order pins the left, right, up, down order.
func TestNeighbors_Order(t *testing.T) {
	g, err := grid.New(3, 3)
	require.NoError(t, err)

	got := g.Points(g.Neighbors(g.Index(1, 1)))
	want := []grid.Point{{X: 0, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 2}}
	assert.Equal(t, want, got)
}

func TestNeighbors_CornerAndObstacles(t *testing.T) {
	g, err := grid.FromRows([]string{
		".#.",
		"...",
	})
	require.NoError(t, err)

	// (0,0): left and up are out of bounds, right is an obstacle.
	got := g.Points(g.Neighbors(g.Index(0, 0)))
	assert.Equal(t, []grid.Point{{X: 0, Y: 1}}, got)

	// (1,1): up is the obstacle.
	got = g.Points(g.Neighbors(g.Index(1, 1)))
	assert.Equal(t, []grid.Point{{X: 0, Y: 1}, {X: 2, Y: 1}}, got)
}

func TestAnyOf(t *testing.T) {
	g, err := grid.FromRows([]string{"#.."})
	require.NoError(t, err)
	dyn := grid.BlockerFunc(func(x, y int) bool { return x == 2 && y == 0 })

	b := grid.AnyOf(g, nil, dyn)
	assert.True(t, b.Blocked(0, 0))
	assert.False(t, b.Blocked(1, 0))
	assert.True(t, b.Blocked(2, 0))
	assert.True(t, b.Blocked(5, 5))
}

//----------------------------------------------------------------------------//
// Editing
//----------------------------------------------------------------------------//

func TestSetStartEnd(t *testing.T) {
	g, err := grid.New(4, 4)
	require.NoError(t, err)

	require.NoError(t, g.SetStart(0, 0))
	require.NoError(t, g.SetStart(1, 0))
	assert.False(t, g.At(0, 0).Start, "prior start must be cleared")
	assert.True(t, g.At(1, 0).Start)

	require.NoError(t, g.SetEnd(3, 3))
	assert.ErrorIs(t, g.SetEnd(1, 0), grid.ErrSameEndpoints)
	assert.ErrorIs(t, g.SetStart(3, 3), grid.ErrSameEndpoints)
	assert.ErrorIs(t, g.SetStart(9, 9), grid.ErrOutOfBounds)

	require.NoError(t, g.SetObstacle(2, 2, true))
	assert.ErrorIs(t, g.SetEnd(2, 2), grid.ErrObstacleCell)
	assert.ErrorIs(t, g.SetStart(2, 2), grid.ErrObstacleCell)

	starts, ends := 0, 0
	for i := 0; i < g.Len(); i++ {
		if g.Cell(i).Start {
			starts++
		}
		if g.Cell(i).End {
			ends++
		}
	}
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
}

func TestObstacleEdits(t *testing.T) {
	g, err := grid.FromRows([]string{"S.E"})
	require.NoError(t, err)

	on, err := g.ToggleObstacle(1, 0)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = g.ToggleObstacle(1, 0)
	require.NoError(t, err)
	assert.False(t, on)

	assert.ErrorIs(t, g.SetObstacle(0, 0, true), grid.ErrEndpointCell)
	_, err = g.ToggleObstacle(2, 0)
	assert.ErrorIs(t, err, grid.ErrEndpointCell)
	assert.ErrorIs(t, g.SetObstacle(-1, 0, true), grid.ErrOutOfBounds)
}

func TestReset_PathKeepsLayout(t *testing.T) {
	g, err := grid.FromRows([]string{"S#E"})
	require.NoError(t, err)
	c := g.At(1, 0)
	c.G, c.H, c.F, c.Parent = 3, 4, 7, 0
	c.Explored, c.Frontier, c.Path = true, true, true

	g.Reset(grid.ResetPath)
	assert.Equal(t, grid.Cell{X: 1, Y: 0, Parent: grid.NoParent, Obstacle: true}, *c)
	assert.Equal(t, g.Index(0, 0), g.Start())
	assert.Equal(t, g.Index(2, 0), g.End())
}

// TestReset_FullIdempotent checks that two full resets equal one.
func TestReset_FullIdempotent(t *testing.T) {
	g, err := grid.FromRows([]string{
		"S.#.",
		".#.E",
	})
	require.NoError(t, err)
	g.At(1, 0).Explored = true

	g.Reset(grid.ResetFull)
	once := g.String()
	startOnce, endOnce := g.Start(), g.End()

	g.Reset(grid.ResetFull)
	assert.Equal(t, once, g.String())
	assert.Equal(t, "....\n....", once)
	assert.Equal(t, startOnce, g.Start())
	assert.Equal(t, endOnce, g.End())
	assert.Equal(t, grid.NoParent, g.Start())
	assert.Zero(t, g.ObstacleCount())
}

func TestRandomize(t *testing.T) {
	g, err := grid.New(20, 20)
	require.NoError(t, err)
	require.NoError(t, g.SetStart(0, 0))
	require.NoError(t, g.SetEnd(19, 19))

	n := g.Randomize(rand.New(rand.NewSource(7)), grid.DefaultObstacleProbability)
	assert.Equal(t, n, g.ObstacleCount())
	assert.False(t, g.At(0, 0).Obstacle)
	assert.False(t, g.At(19, 19).Obstacle)
	// 398 free cells at p=0.3: expect roughly 120, allow wide slack.
	assert.InDelta(t, 120, n, 50)

	// Same seed, same layout.
	h, err := grid.New(20, 20)
	require.NoError(t, err)
	require.NoError(t, h.SetStart(0, 0))
	require.NoError(t, h.SetEnd(19, 19))
	h.Randomize(rand.New(rand.NewSource(7)), grid.DefaultObstacleProbability)
	assert.Equal(t, g.String(), h.String())

	// p=0 clears everything again.
	assert.Zero(t, g.Randomize(rand.New(rand.NewSource(1)), 0))
}
