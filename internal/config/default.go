package config

import (
	"time"

	"riverworld/internal/biome"
	"riverworld/internal/lsystem"
	"riverworld/internal/world"
)

// Default returns a configuration that runs without any file.
func Default() Config {
	return Config{
		World: WorldConfig{
			Seed:         1,
			Bootstrap:    true,
			StreamRadius: 80,
		},
		Biome:  biome.DefaultParams(),
		Assets: world.DefaultAssetParams(),
		Rivers: lsystem.DefaultParams(),
		Streaming: StreamingConfig{
			Workers:      1,
			TickInterval: Duration{10 * time.Millisecond},
		},
		Render: RenderConfig{
			Width:  900,
			Height: 600,
			FOV:    60,
			MaxFPS: 60,
			VSync:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
