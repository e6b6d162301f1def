package runlog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathviz/config"
	"github.com/katalvlaran/pathviz/grid"
	"github.com/katalvlaran/pathviz/runlog"
	"github.com/katalvlaran/pathviz/session"
)

func openMemory(t *testing.T) *runlog.Store {
	t.Helper()
	st, err := runlog.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func summary(status string, explored int, at time.Time) session.RunSummary {
	return session.RunSummary{
		Width: 10, Height: 8,
		Start:     grid.Point{X: 1, Y: 2},
		End:       grid.Point{X: 7, Y: 6},
		Status:    status,
		Explored:  explored,
		PathLen:   10,
		Obstacles: 12,
		Movers:    3,
		Animated:  true,
		StartedAt: at,
		Duration:  1500 * time.Millisecond,
	}
}

func TestStore_InsertRecent(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	id1, err := st.Insert(ctx, summary("found", 20, t0))
	require.NoError(t, err)
	id2, err := st.Insert(ctx, summary("no-path", 40, t0.Add(time.Minute)))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 36)

	runs, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id2, runs[0].ID, "newest first")
	assert.Equal(t, id1, runs[1].ID)

	got := runs[1]
	assert.Equal(t, "found", got.Status)
	assert.Equal(t, grid.Point{X: 1, Y: 2}, got.Start)
	assert.Equal(t, grid.Point{X: 7, Y: 6}, got.End)
	assert.True(t, got.Animated)
	assert.False(t, got.Dynamic)
	assert.True(t, t0.Equal(got.StartedAt))
	assert.Equal(t, 1500*time.Millisecond, got.Duration)

	runs, err = st.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStore_Stats(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	s, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AvgVisits)

	now := time.Now()
	for _, sum := range []session.RunSummary{
		summary("found", 10, now),
		summary("found", 20, now),
		summary("cancelled", 30, now),
	} {
		_, err := st.Insert(ctx, sum)
		require.NoError(t, err)
	}

	s, err = st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[string]int{"found": 2, "cancelled": 1}, s.ByStatus)
	assert.InDelta(t, 20.0, s.AvgVisits, 1e-9)
}

func TestStore_FileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := runlog.Open(path)
	require.NoError(t, err)
	_, err = st.Insert(context.Background(), summary("found", 5, time.Now()))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = runlog.Open(path)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

// TestRecorder_Session wires a Recorder into a live session.
func TestRecorder_Session(t *testing.T) {
	st := openMemory(t)
	rec := runlog.NewRecorder(st)

	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = 6, 6
	cfg.Search.Animate = false
	s, err := session.New(cfg, session.WithRecorder(rec))
	require.NoError(t, err)
	require.NoError(t, s.PlaceStart(0, 0))
	require.NoError(t, s.PlaceEnd(5, 5))
	require.NoError(t, s.StartSearch())
	require.NoError(t, s.StartSearch())

	require.NoError(t, rec.Close())
	assert.Zero(t, rec.Dropped())

	runs, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "found", r.Status)
		assert.Equal(t, 10, r.PathLen)
		assert.Equal(t, 6, r.Width)
	}

	rec.Record(summary("found", 1, time.Now()))
	assert.Equal(t, 1, rec.Dropped(), "records after Close are dropped")
	assert.NoError(t, rec.Close(), "Close is idempotent")
}
