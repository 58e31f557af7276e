// Package config loads the YAML configuration shared by the viewer and the
// headless tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"riverworld/internal/biome"
	"riverworld/internal/lsystem"
	"riverworld/internal/world"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	World     WorldConfig       `yaml:"world"`
	Biome     biome.Params      `yaml:"biome"`
	Assets    world.AssetParams `yaml:"assets"`
	Rivers    lsystem.Params    `yaml:"rivers"`
	Streaming StreamingConfig   `yaml:"streaming"`
	Render    RenderConfig      `yaml:"render"`
	Log       LogConfig         `yaml:"log"`
}

type WorldConfig struct {
	// Seed drives weather jitter. Terrain is seeded by the noise tables.
	Seed      int64 `yaml:"seed"`
	Bootstrap bool  `yaml:"bootstrap"`
	// StreamRadius is the Manhattan reach of the border scan, in blocks.
	StreamRadius int `yaml:"stream_radius"`
}

type StreamingConfig struct {
	Workers int `yaml:"workers"`
	// TickInterval paces the headless runner; the viewer ticks per frame.
	TickInterval Duration `yaml:"tick_interval"`
	// MaxChunks stops the headless runner, 0 runs until the border is full.
	MaxChunks int `yaml:"max_chunks"`
}

type RenderConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	FOV       float32 `yaml:"fov"`
	MaxFPS    int     `yaml:"max_fps"`
	Wireframe bool    `yaml:"wireframe"`
	VSync     bool    `yaml:"vsync"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Load reads and validates the file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Rivers.SeaLevel = cfg.Biome.SeaLevel
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.World.StreamRadius <= 0 {
		return fmt.Errorf("%w: world.stream_radius must be positive", ErrInvalid)
	}
	if c.Biome.SeaLevel <= 0 || c.Biome.SeaLevel >= world.ChunkSizeY {
		return fmt.Errorf("%w: biome.sea_level %d outside the column", ErrInvalid, c.Biome.SeaLevel)
	}
	if c.Rivers.SeaLevel != c.Biome.SeaLevel {
		return fmt.Errorf("%w: river sea level %d differs from biome.sea_level %d",
			ErrInvalid, c.Rivers.SeaLevel, c.Biome.SeaLevel)
	}
	if c.Rivers.ErosionScale <= 0 {
		return fmt.Errorf("%w: rivers.erosion_scale must be positive", ErrInvalid)
	}
	if c.Rivers.LinearIterations < 0 || c.Rivers.DeltaIterations < 0 {
		return fmt.Errorf("%w: rivers iterations cannot be negative", ErrInvalid)
	}
	if c.Streaming.Workers < 1 {
		return fmt.Errorf("%w: streaming.workers must be at least 1", ErrInvalid)
	}
	if c.Streaming.MaxChunks < 0 {
		return fmt.Errorf("%w: streaming.max_chunks cannot be negative", ErrInvalid)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		return fmt.Errorf("%w: render.fov must be within (0, 180)", ErrInvalid)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// Logger builds the process logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	lvl, err := l.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
