// Package config loads pathviz settings from YAML with defaults and validation.
//
// Every field has a default (see Default); a YAML file only needs the keys it
// overrides:
//
//	grid:
//	  width: 40
//	  height: 25
//	movers:
//	  min_speed: 0.1
//	search:
//	  animate: true
//	  dynamic: true
//	tick: 30ms
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// GridConfig sizes the board.
type GridConfig struct {
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	ObstacleProbability float64 `yaml:"obstacle_probability"`
}

// MoversConfig tunes spawned moving obstacles.
type MoversConfig struct {
	MinBatch int     `yaml:"min_batch"`
	MaxBatch int     `yaml:"max_batch"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// SearchConfig holds the initial mode flags.
type SearchConfig struct {
	Animate     bool `yaml:"animate"`
	Dynamic     bool `yaml:"dynamic"`
	DetectStale bool `yaml:"detect_stale"`
}

// ServerConfig configures the websocket front-end.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RunLogConfig configures the SQLite run log. An empty Path disables it.
type RunLogConfig struct {
	Path string `yaml:"path"`
}

// Config is the full application configuration.
type Config struct {
	Grid   GridConfig    `yaml:"grid"`
	Movers MoversConfig  `yaml:"movers"`
	Search SearchConfig  `yaml:"search"`
	Tick   time.Duration `yaml:"tick"`
	Seed   int64         `yaml:"seed"` // 0 picks a time-based seed
	Server ServerConfig  `yaml:"server"`
	RunLog RunLogConfig  `yaml:"runlog"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Width:               30,
			Height:              20,
			ObstacleProbability: 0.3,
		},
		Movers: MoversConfig{
			MinBatch: 3,
			MaxBatch: 5,
			MinSpeed: 0.05,
			MaxSpeed: 0.2,
		},
		Search: SearchConfig{
			Animate: true,
		},
		Tick:   50 * time.Millisecond,
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
// Unknown keys are rejected; an empty document yields the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and returns the first violation wrapped in ErrInvalid.
func (c Config) Validate() error {
	switch {
	case c.Grid.Width < 1 || c.Grid.Height < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case c.Grid.ObstacleProbability < 0 || c.Grid.ObstacleProbability > 1:
		return fmt.Errorf("%w: obstacle_probability %g", ErrInvalid, c.Grid.ObstacleProbability)
	case c.Movers.MinBatch < 1 || c.Movers.MaxBatch < c.Movers.MinBatch:
		return fmt.Errorf("%w: mover batch [%d,%d]", ErrInvalid, c.Movers.MinBatch, c.Movers.MaxBatch)
	case c.Movers.MinSpeed <= 0 || c.Movers.MaxSpeed < c.Movers.MinSpeed:
		return fmt.Errorf("%w: mover speed [%g,%g)", ErrInvalid, c.Movers.MinSpeed, c.Movers.MaxSpeed)
	case c.Tick <= 0:
		return fmt.Errorf("%w: tick %s", ErrInvalid, c.Tick)
	}
	return nil
}
