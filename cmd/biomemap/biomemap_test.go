package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"riverworld/internal/biome"
	"riverworld/internal/config"
	"riverworld/internal/lsystem"
	"riverworld/internal/spatial"
	"riverworld/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, name := range []string{"biome", "height", "surface"} {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, Mode(name), m)
	}
	_, err := ParseMode("relief")
	assert.Error(t, err)
}

func TestRenderClassifier(t *testing.T) {
	c := biome.NewClassifier(nil)
	img, err := RenderClassifier(c, -16, -16, 32, 128, ModeBiome)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			assert.Equal(t, uint8(255), img.NRGBAAt(x, y).A)
		}
	}

	again, err := RenderClassifier(c, -16, -16, 32, 128, ModeBiome)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, again.Pix)

	_, err = RenderClassifier(c, 0, 0, 8, 128, ModeSurface)
	assert.Error(t, err)
}

func TestRenderHeightIsGrey(t *testing.T) {
	img, err := RenderClassifier(biome.NewClassifier(nil), 0, 0, 16, -1, ModeHeight)
	require.NoError(t, err)
	px := img.NRGBAAt(3, 5)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
}

func TestShadeClamps(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	assert.Equal(t, c, shade(c, 128, 128))
	bright := shade(c, 1000, 128)
	assert.Equal(t, uint8(255), bright.R)
	assert.InDelta(t, 140, float64(bright.G), 1)
	dark := shade(c, -1000, 128)
	assert.InDelta(t, 80, float64(dark.R), 1)
	assert.Equal(t, uint8(255), dark.A)
}

func TestRenderSurface(t *testing.T) {
	store := world.NewStore(world.Options{})
	store.BuildChunk(0, 0)
	img := RenderSurface(store, spatial.NewRect(-16, 15, 0, 15), 128)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, missingColor, img.NRGBAAt(0, 0), "columns without a chunk stay black")
	assert.NotEqual(t, missingColor, img.NRGBAAt(20, 4))
}

func TestDrawLegendMarksPixels(t *testing.T) {
	img, err := RenderClassifier(biome.NewClassifier(nil), 0, 0, 64, 128, ModeHeight)
	require.NoError(t, err)
	before := append([]uint8(nil), img.Pix...)
	DrawLegend(img, []string{"height"})
	assert.NotEqual(t, before, img.Pix)
	assert.Len(t, BiomeLegend(), len(biome.Types))
}

func TestWritePNG(t *testing.T) {
	img, err := RenderClassifier(biome.NewClassifier(nil), 0, 0, 8, 128, ModeBiome)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, writePNG(path, img))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGrowStopsAtChunkLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("generates terrain")
	}
	cfg := config.Default()
	cfg.World.Bootstrap = false
	cfg.World.StreamRadius = 32
	cfg.Streaming.MaxChunks = 3
	cfg.Streaming.TickInterval = config.Duration{}
	cfg.Log.Level = "error"
	log := cfg.Log.Logger(os.Stderr)

	store := world.NewStore(world.Options{BorderReach: cfg.World.StreamRadius})
	n := Grow(store, lsystem.NewSystem(cfg.Rivers, nil), cfg, mgl32.Vec3{8, 0, 8}, log)
	assert.Equal(t, 3, n)
}
