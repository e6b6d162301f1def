package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathviz/config"
)

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.3, cfg.Grid.ObstacleProbability)
	assert.Equal(t, 3, cfg.Movers.MinBatch)
	assert.Equal(t, 5, cfg.Movers.MaxBatch)
	assert.True(t, cfg.Search.Animate)
	assert.False(t, cfg.Search.Dynamic)
	assert.False(t, cfg.Search.DetectStale)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
grid:
  width: 40
  height: 25
search:
  animate: false
  dynamic: true
tick: 30ms
runlog:
  path: runs.db
`))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Grid.Width)
	assert.Equal(t, 25, cfg.Grid.Height)
	assert.Equal(t, 0.3, cfg.Grid.ObstacleProbability, "unset keys keep defaults")
	assert.False(t, cfg.Search.Animate)
	assert.True(t, cfg.Search.Dynamic)
	assert.Equal(t, 30*time.Millisecond, cfg.Tick)
	assert.Equal(t, "runs.db", cfg.RunLog.Path)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"ZeroWidth", "grid: {width: 0}"},
		{"Probability", "grid: {obstacle_probability: 1.5}"},
		{"Batch", "movers: {min_batch: 4, max_batch: 2}"},
		{"Speed", "movers: {min_speed: 0}"},
		{"Tick", "tick: 0s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Parse([]byte("colour: blue"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
