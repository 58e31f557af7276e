package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"riverworld/internal/biome"
	"riverworld/internal/registry"
	"riverworld/internal/spatial"
	"riverworld/internal/world"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Mode selects what a map pixel shows.
type Mode string

const (
	ModeBiome   Mode = "biome"
	ModeHeight  Mode = "height"
	ModeSurface Mode = "surface"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBiome, ModeHeight, ModeSurface:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want biome, height or surface)", s)
}

var biomeColors = map[biome.Type]color.NRGBA{
	biome.Plain:    {R: 110, G: 170, B: 70, A: 255},
	biome.Dark:     {R: 70, G: 40, B: 90, A: 255},
	biome.Desert:   {R: 220, G: 200, B: 130, A: 255},
	biome.Frozen:   {R: 235, G: 240, B: 250, A: 255},
	biome.Jungle:   {R: 40, G: 120, B: 40, A: 255},
	biome.Tundra:   {R: 150, G: 160, B: 150, A: 255},
	biome.Mountain: {R: 125, G: 125, B: 125, A: 255},
}

var (
	waterColor   = color.NRGBA{R: 40, G: 80, B: 200, A: 255}
	missingColor = color.NRGBA{A: 255}
	legendColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	legendShadow = color.NRGBA{A: 200}
)

var surfaceColors = map[registry.BlockType]color.NRGBA{
	registry.BlockGrass:      {R: 100, G: 165, B: 60, A: 255},
	registry.BlockDirt:       {R: 120, G: 85, B: 55, A: 255},
	registry.BlockStone:      {R: 125, G: 125, B: 125, A: 255},
	registry.BlockLava:       {R: 230, G: 90, B: 20, A: 255},
	registry.BlockWater:      waterColor,
	registry.BlockSnow:       {R: 240, G: 245, B: 250, A: 255},
	registry.BlockIce:        {R: 160, G: 200, B: 240, A: 255},
	registry.BlockLeaf:       {R: 50, G: 110, B: 40, A: 255},
	registry.BlockWood:       {R: 100, G: 70, B: 40, A: 255},
	registry.BlockSand:       {R: 220, G: 200, B: 130, A: 255},
	registry.BlockEvil:       {R: 70, G: 40, B: 90, A: 255},
	registry.BlockLeafMold:   {R: 60, G: 90, B: 40, A: 255},
	registry.BlockFrozenDirt: {R: 150, G: 160, B: 150, A: 255},
	registry.BlockLakeBottom: {R: 90, G: 80, B: 60, A: 255},
	registry.BlockRedRock:    {R: 170, G: 60, B: 40, A: 255},
}

// shade darkens or brightens c by the height's distance from sea level.
func shade(c color.NRGBA, h, sea int) color.NRGBA {
	f := 1 + float32(h-sea)/128
	f = min(max(f, 0.4), 1.4)
	scale := func(v uint8) uint8 { return uint8(min(float32(v)*f, 255)) }
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// RenderClassifier draws size x size columns starting at (x0, z0) straight
// from the biome fields. Surface mode is not available without a store.
func RenderClassifier(c *biome.Classifier, x0, z0, size, sea int, mode Mode) (*image.NRGBA, error) {
	if mode == ModeSurface {
		return nil, fmt.Errorf("surface mode needs generated chunks, use -stream")
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for pz := 0; pz < size; pz++ {
		for px := 0; px < size; px++ {
			t, h := c.Classify(x0+px, z0+pz)
			var col color.NRGBA
			switch {
			case h < sea:
				col = shade(waterColor, h, sea)
			case mode == ModeHeight:
				v := uint8(min(max(h, 0), 255))
				col = color.NRGBA{R: v, G: v, B: v, A: 255}
			default:
				col = shade(biomeColors[t], h, sea)
			}
			img.SetNRGBA(px, pz, col)
		}
	}
	return img, nil
}

// RenderSurface draws the top visible block of every column of r that has
// been generated. Missing chunks stay black.
func RenderSurface(store *world.Store, r spatial.Rect, sea int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.XMax-r.XMin+1, r.ZMax-r.ZMin+1))
	draw.Draw(img, img.Bounds(), image.NewUniform(missingColor), image.Point{}, draw.Src)
	for _, c := range store.Chunks() {
		area, ok := c.Rect().Intersect(r)
		if !ok {
			continue
		}
		blocks, _ := c.Snapshot()
		for x := area.XMin; x <= area.XMax; x++ {
			for z := area.ZMin; z <= area.ZMax; z++ {
				t, h := topBlock(blocks, x-c.X, z-c.Z)
				col, known := surfaceColors[t]
				if !known {
					col = surfaceColors[registry.BlockGrass]
				}
				img.SetNRGBA(x-r.XMin, z-r.ZMin, shade(col, h, sea))
			}
		}
	}
	return img
}

// topBlock skips air and cloud.
func topBlock(b *world.Blocks, lx, lz int) (registry.BlockType, int) {
	for y := world.ChunkSizeY - 1; y >= 0; y-- {
		if t := b.BlockAt(lx, y, lz); t != registry.BlockEmpty && t != registry.BlockCloud {
			return t, y
		}
	}
	return registry.BlockEmpty, 0
}

// DrawLegend writes lines into the top left corner with a one pixel shadow.
func DrawLegend(img *image.NRGBA, lines []string) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	d := &font.Drawer{Dst: img, Face: face}
	for i, line := range lines {
		y := 4 + face.Metrics().Ascent.Ceil() + i*lineHeight
		d.Src = image.NewUniform(legendShadow)
		d.Dot = fixed.P(5, y+1)
		d.DrawString(line)
		d.Src = image.NewUniform(legendColor)
		d.Dot = fixed.P(4, y)
		d.DrawString(line)
	}
}

// BiomeLegend names every biome with its colour swatch.
func BiomeLegend() []string {
	lines := make([]string, 0, len(biome.Types))
	for _, t := range biome.Types {
		c := biomeColors[t]
		lines = append(lines, fmt.Sprintf("%-8s #%02x%02x%02x", t, c.R, c.G, c.B))
	}
	return lines
}
