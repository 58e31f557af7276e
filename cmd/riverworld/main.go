package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"riverworld/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	configPath := flag.String("config", "", "YAML config file")
	atlasPath := flag.String("atlas", "", "block atlas PNG (16x16 tiles); generated when empty")
	seed := flag.Int64("seed", 0, "weather seed, overrides the config")
	wireframe := flag.Bool("wireframe", false, "start in wireframe mode")
	noBootstrap := flag.Bool("no-bootstrap", false, "skip the starting region")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			closer.Fatalln(err)
		}
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *wireframe {
		cfg.Render.Wireframe = true
	}
	if *noBootstrap {
		cfg.World.Bootstrap = false
	}

	log := cfg.Log.Logger(os.Stderr)
	slog.SetDefault(log)

	if err := glfw.Init(); err != nil {
		closer.Fatalln(fmt.Errorf("glfw init: %w", err))
	}
	closer.Bind(glfw.Terminate)

	app, err := NewApp(cfg, *atlasPath, log)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(app.Close)

	app.Run()
}
