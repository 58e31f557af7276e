// Command biomemap renders the world headlessly to a PNG. Without -stream
// it samples the biome fields directly; with -stream it grows the world
// around the centre through the streaming coordinator first.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"time"

	"riverworld/internal/biome"
	"riverworld/internal/config"
	"riverworld/internal/lsystem"
	"riverworld/internal/profiling"
	"riverworld/internal/spatial"
	"riverworld/internal/streaming"
	"riverworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

// maxFailures stops Grow after this many consecutive failed ticks.
const maxFailures = 3

func main() {
	defer closer.Close()

	configPath := flag.String("config", "", "YAML config file")
	out := flag.String("out", "biomemap.png", "output PNG")
	cx := flag.Int("x", 0, "centre x")
	cz := flag.Int("z", 0, "centre z")
	size := flag.Int("size", 512, "map width and height in blocks")
	modeName := flag.String("mode", "biome", "biome, height or surface")
	stream := flag.Bool("stream", false, "generate chunks through the streaming coordinator")
	maxChunks := flag.Int("max-chunks", 0, "stop streaming after this many chunks, overrides the config")
	legend := flag.Bool("legend", true, "draw the legend")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			closer.Fatalln(err)
		}
		cfg = *loaded
	}
	if *maxChunks > 0 {
		cfg.Streaming.MaxChunks = *maxChunks
	}
	log := cfg.Log.Logger(os.Stderr)
	slog.SetDefault(log)

	mode, err := ParseMode(*modeName)
	if err != nil {
		closer.Fatalln(err)
	}
	if *size <= 0 {
		closer.Fatalln(fmt.Errorf("size must be positive, got %d", *size))
	}

	params := cfg.Biome
	classifier := biome.NewClassifier(&params)
	x0, z0 := *cx-*size/2, *cz-*size/2
	sea := cfg.Biome.SeaLevel

	var img *image.NRGBA
	lines := []string{fmt.Sprintf("%s %d,%d %dx%d", mode, *cx, *cz, *size, *size)}
	if *stream {
		store := world.NewStore(world.Options{
			Generator:   world.NewGenerator(classifier, cfg.Assets),
			Logger:      log.With("component", "world"),
			WeatherSeed: cfg.World.Seed,
			BorderReach: cfg.World.StreamRadius,
		})
		rivers := lsystem.NewSystem(cfg.Rivers, log.With("component", "rivers"))
		n := Grow(store, rivers, cfg, mgl32.Vec3{float32(*cx), 0, float32(*cz)}, log)
		_, spawned, discarded := rivers.Stats()
		lines = append(lines, fmt.Sprintf("%d chunks, %d rivers (%d discarded)", n, spawned, discarded))
		if mode == ModeSurface {
			img = RenderSurface(store, spatial.NewRect(x0, x0+*size-1, z0, z0+*size-1), sea)
		}
	}
	if img == nil {
		if img, err = RenderClassifier(classifier, x0, z0, *size, sea, mode); err != nil {
			closer.Fatalln(err)
		}
	}
	if *legend {
		if mode == ModeBiome {
			lines = append(lines, BiomeLegend()...)
		}
		DrawLegend(img, lines)
	}

	if err := writePNG(*out, img); err != nil {
		closer.Fatalln(err)
	}
	log.Info("map written", "path", *out, "mode", string(mode), "size", *size)
}

// Grow streams chunks around viewer until the border is full or the
// configured chunk limit is reached. It returns the store's chunk count.
func Grow(store *world.Store, rivers *lsystem.System, cfg config.Config, viewer mgl32.Vec3, log *slog.Logger) int {
	if cfg.World.Bootstrap {
		store.Bootstrap(rivers)
	}
	coord := streaming.New(streaming.Options{
		Store:   store,
		Rivers:  rivers,
		Workers: cfg.Streaming.Workers,
		Logger:  log.With("component", "streaming"),
	})
	defer coord.Close()

	start := time.Now()
	tick := cfg.Streaming.TickInterval.Duration
	failures := 0
	for {
		if cfg.Streaming.MaxChunks > 0 && store.Len() >= cfg.Streaming.MaxChunks && coord.Status() == streaming.Idle {
			break
		}
		rep := coord.Tick(viewer)
		if rep.Err != nil {
			log.Warn("streaming tick", "region", rep.Region.String(), "error", rep.Err)
			if failures++; failures >= maxFailures {
				break
			}
		} else if rep.Committed {
			failures = 0
		}
		if rep.Status == streaming.Idle && !rep.Submitted && rep.Err == nil {
			break
		}
		if tick > 0 {
			time.Sleep(tick)
		}
	}
	log.Info("streaming finished", "chunks", store.Len(), "committed", coord.Committed(), "elapsed", time.Since(start))
	profiling.LogTop(log, "streaming profile", 6)
	return store.Len()
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
