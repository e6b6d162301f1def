package astar_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/pathviz/astar"
	"github.com/katalvlaran/pathviz/grid"
)

// BenchmarkFindPath_Open measures a corner-to-corner search on an open 60×60 grid.
// Complexity: O(V²) worst case for the linear open-set scan.
func BenchmarkFindPath_Open(b *testing.B) {
	g, err := grid.New(60, 60)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}
	start, end := g.Index(0, 0), g.Index(59, 59)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = astar.FindPath(g, start, end)
	}
}

// BenchmarkFindPath_Random measures a search on a 60×60 grid with 30% obstacles.
func BenchmarkFindPath_Random(b *testing.B) {
	g, err := grid.New(60, 60)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}
	if err = g.SetStart(0, 0); err != nil {
		b.Fatal(err)
	}
	if err = g.SetEnd(59, 59); err != nil {
		b.Fatal(err)
	}
	g.Randomize(rand.New(rand.NewSource(42)), grid.DefaultObstacleProbability)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = astar.FindPath(g, g.Start(), g.End())
	}
}
