package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"riverworld/internal/biome"
	"riverworld/internal/config"
	"riverworld/internal/graphics"
	"riverworld/internal/input"
	"riverworld/internal/lsystem"
	"riverworld/internal/profiling"
	"riverworld/internal/registry"
	"riverworld/internal/streaming"
	"riverworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	spawnX, spawnZ = 32, 32
	spawnFallback  = 160
	eyeHeight      = 2
)

// App wires the world, the streaming slot and the GL viewer together.
type App struct {
	cfg    config.Config
	log    *slog.Logger
	window *glfw.Window

	camera   *graphics.Camera
	renderer *graphics.Renderer
	limiter  *FPSLimiter
	input    *input.Manager

	store  *world.Store
	rivers *lsystem.System
	stream *streaming.Coordinator

	captured     bool
	firstMouse   bool
	lastX, lastY float64

	closeOnce sync.Once
}

func NewApp(cfg config.Config, atlasPath string, log *slog.Logger) (*App, error) {
	window, err := setupWindow(cfg.Render)
	if err != nil {
		return nil, err
	}

	params := cfg.Biome
	gen := world.NewGenerator(biome.NewClassifier(&params), cfg.Assets)
	store := world.NewStore(world.Options{
		Generator:   gen,
		Logger:      log.With("component", "world"),
		WeatherSeed: cfg.World.Seed,
		BorderReach: cfg.World.StreamRadius,
	})
	rivers := lsystem.NewSystem(cfg.Rivers, log.With("component", "rivers"))
	if cfg.World.Bootstrap {
		start := time.Now()
		n := store.Bootstrap(rivers)
		log.Info("world ready", "chunks", n, "elapsed", time.Since(start))
	}

	var atlas *image.NRGBA
	if atlasPath != "" {
		if atlas, err = graphics.LoadImage(atlasPath); err != nil {
			return nil, err
		}
	} else {
		atlas = graphics.GenerateAtlas()
	}
	renderer, err := graphics.NewRenderer(atlas)
	if err != nil {
		return nil, err
	}
	renderer.Wireframe = cfg.Render.Wireframe

	camera := graphics.NewCamera(cfg.Render.Width, cfg.Render.Height, cfg.Render.FOV)
	camera.Position = mgl32.Vec3{spawnX + 0.5, float32(groundAt(store, spawnX, spawnZ) + eyeHeight), spawnZ + 0.5}

	stream := streaming.New(streaming.Options{
		Store:   store,
		Rivers:  rivers,
		Workers: cfg.Streaming.Workers,
		Logger:  log.With("component", "streaming"),
	})

	a := &App{
		cfg:        cfg,
		log:        log,
		window:     window,
		camera:     camera,
		renderer:   renderer,
		limiter:    NewFPSLimiter(cfg.Render.MaxFPS),
		input:      input.NewManager(),
		store:      store,
		rivers:     rivers,
		stream:     stream,
		firstMouse: true,
	}
	a.setupInputHandlers()
	a.capture(true)
	return a, nil
}

func setupWindow(rc config.RenderConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(rc.Width, rc.Height, "riverworld", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	if rc.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// groundAt returns the highest collidable block of a column.
func groundAt(store *world.Store, x, z int) int {
	for y := world.ChunkSizeY - 1; y >= 0; y-- {
		if registry.IsCollidable(store.GetBlockAt(x, y, z)) {
			return y
		}
	}
	return spawnFallback
}

// Run drives frames until the window closes, then releases GL state.
func (a *App) Run() {
	last := time.Now()
	lastReport := last
	frames := 0

	for !a.window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		a.handleInput(dt)

		rep := a.stream.Tick(a.camera.Position)
		if rep.Err != nil && !errors.Is(rep.Err, streaming.ErrClosed) {
			a.log.Warn("streaming tick", "region", rep.Region.String(), "error", rep.Err)
		}

		a.renderer.Sync(a.store)
		a.renderer.Render(a.camera)
		func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()
		frames++

		if since := time.Since(lastReport); since >= time.Second {
			a.report(float64(frames) / since.Seconds())
			frames = 0
			lastReport = time.Now()
		}
		a.limiter.Wait()
	}

	a.Close()
	a.renderer.Delete()
	a.window.Destroy()
}

func (a *App) report(fps float64) {
	st := a.renderer.Stats()
	live, spawned, discarded := a.rivers.Stats()
	p := a.camera.Position
	a.window.SetTitle(fmt.Sprintf("riverworld | %.0f fps | %d chunks | %d tris | %.0f %.0f %.0f",
		fps, a.store.Len(), st.Triangles, p.X(), p.Y(), p.Z()))
	a.log.Debug("frame", "fps", int(fps), "chunks", a.store.Len(), "triangles", st.Triangles,
		"effects", st.Effects, "rivers", live, "spawned", spawned, "discarded", discarded,
		"streamed", a.stream.Committed(), "top", profiling.TopN(4))
}

// Close stops the streaming slot. It is safe to call more than once and
// from the signal handler.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.stream.Close()
		a.log.Info("viewer closed", "chunks", a.store.Len(), "streamed", a.stream.Committed())
	})
}
