package grid_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/pathviz/grid"
)

// BenchmarkNeighbors measures neighbor enumeration on a randomized 200×200 grid.
// Complexity: O(1) per call.
func BenchmarkNeighbors(b *testing.B) {
	g, err := grid.New(200, 200)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}
	g.Randomize(rand.New(rand.NewSource(42)), grid.DefaultObstacleProbability)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Neighbors(i % g.Len())
	}
}

// BenchmarkResetPath measures a path reset on a 200×200 grid.
// Complexity: O(W×H)
func BenchmarkResetPath(b *testing.B) {
	g, err := grid.New(200, 200)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Reset(grid.ResetPath)
	}
}
